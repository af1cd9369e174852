package versions

// File represents the top-level structure of the versions seed file.
type File struct {
	Versions []Entry `yaml:"versions"`
}

// Entry is one version as declared in YAML.
type Entry struct {
	Abbreviation string `yaml:"abbreviation"`
	Name         string `yaml:"name"`
	Source       string `yaml:"source"`
	SourceID     string `yaml:"sourceId,omitempty"`
	AliasOf      string `yaml:"aliasOf,omitempty"`
	Locale       string `yaml:"locale,omitempty"`
	Supports     struct {
		OT  bool `yaml:"ot"`
		NT  bool `yaml:"nt"`
		Deu bool `yaml:"deu"`
	} `yaml:"supports"`
}
