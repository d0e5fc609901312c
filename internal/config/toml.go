package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

func parseTOML(tomlFilePath string) (*StructuredConfig, error) {
	var fileCfg StructuredFileConfig
	if _, err := toml.DecodeFile(tomlFilePath, &fileCfg); err != nil {
		return nil, fmt.Errorf("error decoding toml configs: %w", err)
	}

	return fileCfg.toStructured(), nil
}
