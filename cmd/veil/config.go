// Copyright 2026 The veil Authors
// This file is part of the veil library.
//
// The veil library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The veil library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the veil library. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/naoina/toml"

	"github.com/veilchain/veil/params"
)

// veilConfig collects the settings loadable from a TOML file. Flags given
// on the command line take precedence over file values.
type veilConfig struct {
	Protocol params.ProtocolConfig
	DataDir  string
}

func defaultConfig() veilConfig {
	return veilConfig{
		Protocol: *params.DefaultProtocolConfig(),
	}
}

// tomlSettings mirrors the struct fields verbatim and rejects unknown keys
// so typos in config files surface immediately.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		if len(field) > 0 && unicode.IsLower(rune(field[0])) {
			return nil
		}
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

func loadConfig(file string, cfg *veilConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := tomlSettings.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("%v in file %s", err, file)
	}
	return nil
}
