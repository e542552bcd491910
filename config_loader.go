package citypandemic

import "github.com/BurntSushi/toml"

// LoadConfig parses a TOML config file into a Config. Grounded on the
// teacher's LoadSingleHostConfig/LoadEvoEpiConfig (config_parser.go,
// single_host_config_loader.go): toml.DecodeFile straight into the
// struct, deferring validation to the caller.
func LoadConfig(path string) (*Config, error) {
	conf := new(Config)
	if _, err := toml.DecodeFile(path, conf); err != nil {
		return nil, err
	}
	return conf, nil
}
