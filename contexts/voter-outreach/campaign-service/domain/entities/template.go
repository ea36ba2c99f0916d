package entities

import "strings"

// Personalize substitutes the known placeholder tokens with the voter's
// values. Unknown tokens are left verbatim. Pure function of template+voter.
func Personalize(template string, voter Voter) string {
	replacer := strings.NewReplacer(
		"{{name}}", voter.Name,
		"{{constituency}}", voter.Constituency,
		"{{district}}", voter.District,
		"{{state}}", voter.State,
	)
	return replacer.Replace(template)
}
