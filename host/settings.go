// Copyright 2018-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/beevik/prefixtree/v2"
)

type settings struct {
	HexMode         bool   `doc:"hexadecimal input mode"`
	CompactMode     bool   `doc:"compact disassembly output"`
	MemDumpBytes    int    `doc:"default number of memory bytes to dump"`
	DisasmLines     int    `doc:"default number of lines to disassemble"`
	MaxStepLines    int    `doc:"max lines to disassemble when stepping"`
	NextDisasmAddr  uint16 `doc:"address of next disassembly"`
	NextMemDumpAddr uint16 `doc:"address of next memory dump"`
	TraceCycles     bool   `doc:"show drive ticks when tracing"`
	NoiseEnabled    bool   `doc:"simulate flux noise on the disk"`
	ExtendImages    bool   `doc:"let disk images grow to 42 tracks"`
}

func newSettings() *settings {
	return &settings{
		HexMode:         false,
		CompactMode:     false,
		MemDumpBytes:    64,
		DisasmLines:     10,
		MaxStepLines:    20,
		NextDisasmAddr:  0,
		NextMemDumpAddr: 0,
		TraceCycles:     true,
		NoiseEnabled:    true,
		ExtendImages:    true,
	}
}

type settingsField struct {
	name  string
	index int
	typ   reflect.Type
	doc   string
}

var (
	settingsTree   = prefixtree.New[*settingsField]()
	settingsFields []settingsField
	errSettingType = errors.New("invalid setting type")
)

func init() {
	t := reflect.TypeFor[settings]()
	settingsFields = make([]settingsField, t.NumField())
	for i := range settingsFields {
		f := t.Field(i)
		settingsFields[i] = settingsField{
			name:  f.Name,
			index: i,
			typ:   f.Type,
			doc:   f.Tag.Get("doc"),
		}
		settingsTree.Add(strings.ToLower(f.Name), &settingsFields[i])
	}
}

// lookup finds a setting by any unambiguous prefix of its name.
func (s *settings) lookup(key string) (*settingsField, reflect.Value, error) {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return nil, reflect.Value{}, fmt.Errorf("setting '%s': %w", key, err)
	}
	return f, reflect.ValueOf(s).Elem().Field(f.index), nil
}

// Display writes all settings with their values and descriptions.
func (s *settings) Display(w io.Writer) {
	value := reflect.ValueOf(s).Elem()
	for i, f := range settingsFields {
		v := value.Field(i)
		var line string
		switch f.typ.Kind() {
		case reflect.Uint16:
			line = fmt.Sprintf("    %-16s $%04X", f.name, v.Uint())
		default:
			line = fmt.Sprintf("    %-16s %v", f.name, v)
		}
		fmt.Fprintf(w, "%-28s (%s)\n", line, f.doc)
	}
}

// Kind returns the kind of a setting, or reflect.Invalid if there is no
// such setting.
func (s *settings) Kind(key string) reflect.Kind {
	f, _, err := s.lookup(key)
	if err != nil {
		return reflect.Invalid
	}
	return f.typ.Kind()
}

// Get returns the value of a setting.
func (s *settings) Get(key string) (any, error) {
	_, v, err := s.lookup(key)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// Set assigns a value to a setting. Numeric values are converted to the
// setting's type.
func (s *settings) Set(key string, value any) error {
	f, v, err := s.lookup(key)
	if err != nil {
		return err
	}

	in := reflect.ValueOf(value)
	if (f.typ.Kind() == reflect.Bool) != (in.Kind() == reflect.Bool) ||
		!in.Type().ConvertibleTo(f.typ) {
		return errSettingType
	}
	v.Set(in.Convert(f.typ))
	return nil
}
