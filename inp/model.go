// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/Bezzalel1/pre-quantum-field-theory/mdl/field"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// ModelData holds the field model definition
type ModelData struct {
	Name  string     `json:"name" yaml:"name"`   // name of model; e.g. "exp", "cte"
	Extra string     `json:"extra" yaml:"extra"` // extra information about this model
	Prms  dbf.Params `json:"prms" yaml:"prms"`   // model parameters; missing ones take default values
}

// SetDefault sets the baseline model
func (o *ModelData) SetDefault() {
	o.Name = "exp"
	o.Prms = nil
}

// Alloc allocates and initialises the field model
func (o *ModelData) Alloc() (mdl field.Model, err error) {
	mdl, err = field.New(o.Name)
	if err != nil {
		return
	}
	err = mdl.Init(o.Prms)
	if err != nil {
		return nil, chk.Err("model %q: cannot initialise:\n%v", o.Name, err)
	}
	return
}
