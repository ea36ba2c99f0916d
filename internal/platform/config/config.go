package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AMQPUrl string

	DispatchConcurrency int
	SweepInterval       time.Duration

	SMSProvider   string
	VoiceProvider string

	MSG91AuthKey    string
	MSG91TemplateID string
	DLTEntityID     string

	GupshupAPIKey  string
	GupshupAppName string

	RouteMobileUsername string
	RouteMobilePassword string

	WhatsAppToken         string
	WhatsAppPhoneNumberID string

	SendGridAPIKey string
	EmailFromName  string
	EmailFrom      string

	ExotelAccountSID string
	ExotelAPIKey     string
	ExotelAPIToken   string
	ExotelFlowID     string

	TwilioAccountSID string
	TwilioAuthToken  string
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "sampark"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		AMQPUrl: os.Getenv("AMQP_URL"),

		DispatchConcurrency: envInt("DISPATCH_CONCURRENCY", 4),
		SweepInterval:       envDuration("SCHEDULE_SWEEP_INTERVAL", time.Minute),

		SMSProvider:   envOr("SMS_PROVIDER", "msg91"),
		VoiceProvider: envOr("VOICE_PROVIDER", "exotel"),

		MSG91AuthKey:    os.Getenv("MSG91_AUTH_KEY"),
		MSG91TemplateID: os.Getenv("MSG91_TEMPLATE_ID"),
		DLTEntityID:     os.Getenv("DLT_ENTITY_ID"),

		GupshupAPIKey:  os.Getenv("GUPSHUP_API_KEY"),
		GupshupAppName: os.Getenv("GUPSHUP_APP_NAME"),

		RouteMobileUsername: os.Getenv("ROUTE_MOBILE_USERNAME"),
		RouteMobilePassword: os.Getenv("ROUTE_MOBILE_PASSWORD"),

		WhatsAppToken:         os.Getenv("WHATSAPP_ACCESS_TOKEN"),
		WhatsAppPhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		EmailFromName:  os.Getenv("EMAIL_FROM_NAME"),
		EmailFrom:      os.Getenv("EMAIL_FROM"),

		ExotelAccountSID: os.Getenv("EXOTEL_ACCOUNT_SID"),
		ExotelAPIKey:     os.Getenv("EXOTEL_API_KEY"),
		ExotelAPIToken:   os.Getenv("EXOTEL_API_TOKEN"),
		ExotelFlowID:     os.Getenv("EXOTEL_FLOW_ID"),

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
	}, nil
}

func envOr(name string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
