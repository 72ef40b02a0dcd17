package config

// DefaultHeader is the comment block "scour init" writes above the rules.
const DefaultHeader = `# scour rule file
#
# remove:  lines matching any of these patterns are dropped.
# replace: applied in order to every remaining line; each rule sees the
#          output of the previous one. Use $1 or ${name} for capture groups.
`

// DefaultConfig returns the starter rule set written by "scour init".
func DefaultConfig() *Config {
	return &Config{
		Remove: []string{
			`^-`,
			`^\s*https?://\S+\s*$`,
		},
		Replace: []Replace{
			// Strip a "Title - (EN) " language tag prefix.
			{Regex: `.*-\s*\([A-Z]{2}\)\s*`, Replacement: ""},
			{Regex: `(\w)--(\w)`, Replacement: "${1}-${2}"},
			// UTF-8 read as Windows-1252.
			{Regex: `â€”`, Replacement: "—"},
			{Regex: `â€“`, Replacement: "–"},
			{Regex: `â€™`, Replacement: "'"},
			{Regex: `â€œ|â€\x{9D}`, Replacement: `"`},
			{Regex: `\s{2,}`, Replacement: " "},
			{Regex: `^\s+|\s+$`, Replacement: ""},
		},
	}
}
