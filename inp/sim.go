// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.sim) JSON or YAML file
package inp

import (
	"encoding/json"
	goio "io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Bezzalel1/pre-quantum-field-theory/mdl/field"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gopkg.in/yaml.v3"
)

// Data holds global data for simulations
type Data struct {
	Desc   string `json:"desc" yaml:"desc"`     // description of simulation
	Method string `json:"method" yaml:"method"` // solving strategy: "shooting" or "collocation"
	DirOut string `json:"dirout" yaml:"dirout"` // directory for output; e.g. /tmp/pqf
}

// DomainData holds the radial domain and the outer boundary condition
type DomainData struct {
	Rmax   float64 `json:"rmax" yaml:"rmax"`     // outer radius
	Rstart float64 `json:"rstart" yaml:"rstart"` // first radius of the initial-value integration
	Outer  string  `json:"outer" yaml:"outer"`   // outer condition: "value" => φ(Rmax)=anchor; "slope" => φ'(Rmax)=0
	Anchor float64 `json:"anchor" yaml:"anchor"` // φ(Rmax) for the "value" condition
}

// IvpData holds data for the initial-value integrator
type IvpData struct {
	Form   string  `json:"form" yaml:"form"`     // formulation: "direct" or "regularized"
	Rtol   float64 `json:"rtol" yaml:"rtol"`     // relative tolerance
	Atol   float64 `json:"atol" yaml:"atol"`     // absolute tolerance
	Hmax   float64 `json:"hmax" yaml:"hmax"`     // max step size
	NmaxSS int     `json:"nmaxss" yaml:"nmaxss"` // max number of substeps
}

// ShootData holds data for the shooting root-finder
type ShootData struct {
	Search  string    `json:"search" yaml:"search"`   // bracket search: "expand" or "scan"
	Policy  string    `json:"policy" yaml:"policy"`   // no-bracket policy: "best_effort" or "fail_fast"
	FailRes float64   `json:"failres" yaml:"failres"` // residual magnitude assigned to failed integrations
	Width0  float64   `json:"width0" yaml:"width0"`   // expand: initial half width
	Factor  float64   `json:"factor" yaml:"factor"`   // expand: expansion factor
	NmaxExp int       `json:"nmaxexp" yaml:"nmaxexp"` // expand: max number of expansions
	Npts    int       `json:"npts" yaml:"npts"`       // scan: number of candidates per width
	Widths  []float64 `json:"widths" yaml:"widths"`   // scan: half widths
	Seed    float64   `json:"seed" yaml:"seed"`       // best effort: seeds are c ± seed
	Xtol    float64   `json:"xtol" yaml:"xtol"`       // Brent: absolute tolerance
	Rtol    float64   `json:"rtol" yaml:"rtol"`       // Brent: relative tolerance
	MaxIt   int       `json:"maxit" yaml:"maxit"`     // Brent: max number of iterations
	Ftol    float64   `json:"ftol" yaml:"ftol"`       // floor of the residual accepted at the refined root
}

// ContData holds data for the continuation over the coupling scale
type ContData struct {
	Nsteps int     `json:"nsteps" yaml:"nsteps"` // number of scales in [0,1]
	Nudge  float64 `json:"nudge" yaml:"nudge"`   // retry seed = previous center ± nudge
}

// CollocData holds data for the collocation solver
type CollocData struct {
	Nodes    int     `json:"nodes" yaml:"nodes"`       // initial number of nodes
	Tol      float64 `json:"tol" yaml:"tol"`           // tolerance on the RMS residual
	MaxIt    int     `json:"maxit" yaml:"maxit"`       // max number of Newton iterations
	MeshTol  float64 `json:"meshtol" yaml:"meshtol"`   // mesh refinement tolerance
	MaxNodes int     `json:"maxnodes" yaml:"maxnodes"` // max number of nodes
	Relax    float64 `json:"relax" yaml:"relax"`       // the retry uses relax・tol
	Inner    float64 `json:"inner" yaml:"inner"`       // guess of φ(0)
	Outer    float64 `json:"outer" yaml:"outer"`       // guess of φ(Rmax) for the "slope" condition
	Scale    float64 `json:"scale" yaml:"scale"`       // coupling scale
}

// ValveData holds data for the valve diagnostic
type ValveData struct {
	Thresh float64 `json:"thresh" yaml:"thresh"` // threshold of χ
	Mode   string  `json:"mode" yaml:"mode"`     // "nearest" or "crossing"
	Eps    float64 `json:"eps" yaml:"eps"`       // floor of V'
}

// Simulation holds all simulation data
type Simulation struct {

	// input
	Data   Data       `json:"data" yaml:"data"`     // stores global simulation data
	Model  ModelData  `json:"model" yaml:"model"`   // field model
	Domain DomainData `json:"domain" yaml:"domain"` // domain and outer condition
	Ivp    IvpData    `json:"ivp" yaml:"ivp"`       // initial-value integrator
	Shoot  ShootData  `json:"shoot" yaml:"shoot"`   // shooting
	Cont   ContData   `json:"cont" yaml:"cont"`     // continuation
	Colloc CollocData `json:"colloc" yaml:"colloc"` // collocation
	Valve  ValveData  `json:"valve" yaml:"valve"`   // valve diagnostic

	// derived
	DirOut string      `json:"-" yaml:"-"` // directory to save results
	Key    string      `json:"-" yaml:"-"` // simulation key; e.g. mysim01.sim => mysim01
	Mdl    field.Model `json:"-" yaml:"-"` // allocated and initialised field model
}

// Simulation //////////////////////////////////////////////////////////////////////////////////////

// ReadSim reads all simulation data from a .sim (JSON), .json, .yaml or .yml file
func ReadSim(simfilepath string) (o *Simulation, err error) {

	// read file
	b, err := os.ReadFile(simfilepath)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot read simulation file %q:\n%v", simfilepath, err)
	}

	// set default values
	o = new(Simulation)
	o.SetDefault()

	// decode
	fn := filepath.Base(simfilepath)
	switch strings.ToLower(filepath.Ext(fn)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, o)
	default:
		err = json.Unmarshal(b, o)
	}
	if err != nil {
		return nil, chk.Err("ReadSim: cannot unmarshal simulation file %q:\n%v", simfilepath, err)
	}

	// key
	o.Key = io.FnKey(fn)

	// check and derived data
	err = o.PostProcess()
	if err != nil {
		return nil, chk.Err("ReadSim: invalid simulation file %q:\n%v", simfilepath, err)
	}
	return
}

// Default returns the baseline simulation
//  rho0=1, phis=1, lam0=0.5, Mcut=1, r0=5, Rmax=40 with φ(Rmax)=0
func Default() (o *Simulation) {
	o = new(Simulation)
	o.SetDefault()
	o.Key = "baseline"
	err := o.PostProcess()
	if err != nil {
		chk.Panic("default simulation is invalid:\n%v", err)
	}
	return
}

// SetDefault sets default values
func (o *Simulation) SetDefault() {
	o.Data.Desc = "baseline"
	o.Data.Method = "shooting"
	o.Model.SetDefault()
	o.Domain.SetDefault()
	o.Ivp.SetDefault()
	o.Shoot.SetDefault()
	o.Cont.SetDefault()
	o.Colloc.SetDefault()
	o.Valve.SetDefault()
}

// PostProcess checks the input and computes derived data
func (o *Simulation) PostProcess() (err error) {

	// method
	if o.Data.Method != "shooting" && o.Data.Method != "collocation" {
		return chk.Err("data.method %q is invalid. options are \"shooting\" and \"collocation\"", o.Data.Method)
	}

	// output directory
	if o.Key == "" {
		o.Key = "pqf"
	}
	o.DirOut = o.Data.DirOut
	if o.DirOut == "" {
		o.DirOut = "/tmp/pqf/" + o.Key
	}

	// sections
	if err = o.Domain.PostProcess(); err != nil {
		return
	}
	if err = o.Ivp.PostProcess(); err != nil {
		return
	}
	if err = o.Shoot.PostProcess(); err != nil {
		return
	}
	if err = o.Cont.PostProcess(); err != nil {
		return
	}
	if err = o.Colloc.PostProcess(); err != nil {
		return
	}
	if err = o.Valve.PostProcess(); err != nil {
		return
	}

	// model
	o.Mdl, err = o.Model.Alloc()
	return
}

// GetInfo returns formatted information
func (o *Simulation) GetInfo(w goio.Writer) (err error) {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return
}

// Sections ////////////////////////////////////////////////////////////////////////////////////////

// SetDefault sets default values
func (o *DomainData) SetDefault() {
	o.Rmax = 40
	o.Rstart = 1e-6
	o.Outer = "value"
}

// PostProcess checks data
func (o *DomainData) PostProcess() error {
	if o.Rstart <= 0 || o.Rmax <= o.Rstart {
		return chk.Err("domain: 0 < rstart < rmax is required. rstart=%g rmax=%g", o.Rstart, o.Rmax)
	}
	if o.Outer != "value" && o.Outer != "slope" {
		return chk.Err("domain.outer %q is invalid. options are \"value\" and \"slope\"", o.Outer)
	}
	return nil
}

// SetDefault sets default values
func (o *IvpData) SetDefault() {
	o.Form = "direct"
	o.Rtol = 1e-7
	o.Atol = 1e-9
	o.Hmax = 0.2
	o.NmaxSS = 100000
}

// PostProcess checks data
func (o *IvpData) PostProcess() error {
	if o.Form != "direct" && o.Form != "regularized" {
		return chk.Err("ivp.form %q is invalid. options are \"direct\" and \"regularized\"", o.Form)
	}
	if o.Rtol <= 0 || o.Atol <= 0 || o.Hmax <= 0 || o.NmaxSS < 1 {
		return chk.Err("ivp: rtol, atol, hmax and nmaxss must be positive. rtol=%g atol=%g hmax=%g nmaxss=%d", o.Rtol, o.Atol, o.Hmax, o.NmaxSS)
	}
	return nil
}

// SetDefault sets default values
func (o *ShootData) SetDefault() {
	o.Search = "expand"
	o.Policy = "best_effort"
	o.FailRes = 1e6
	o.Width0 = 3
	o.Factor = 1.5
	o.NmaxExp = 12
	o.Npts = 80
	o.Widths = []float64{12, 20, 30}
	o.Seed = 0.5
	o.Xtol = 1e-9
	o.Rtol = 1e-8
	o.MaxIt = 100
	o.Ftol = 1e-10
}

// PostProcess checks data
func (o *ShootData) PostProcess() error {
	if o.Search != "expand" && o.Search != "scan" {
		return chk.Err("shoot.search %q is invalid. options are \"expand\" and \"scan\"", o.Search)
	}
	if o.Policy != "best_effort" && o.Policy != "fail_fast" {
		return chk.Err("shoot.policy %q is invalid. options are \"best_effort\" and \"fail_fast\"", o.Policy)
	}
	if o.Width0 <= 0 || o.Factor <= 1 || o.NmaxExp < 0 {
		return chk.Err("shoot: width0 > 0, factor > 1 and nmaxexp ≥ 0 are required. width0=%g factor=%g nmaxexp=%d", o.Width0, o.Factor, o.NmaxExp)
	}
	if o.Npts < 2 || len(o.Widths) == 0 {
		return chk.Err("shoot: scan requires npts ≥ 2 and at least one width. npts=%d widths=%v", o.Npts, o.Widths)
	}
	if o.FailRes <= 0 || o.Xtol <= 0 || o.Rtol <= 0 || o.MaxIt < 1 || o.Ftol <= 0 {
		return chk.Err("shoot: failres, xtol, rtol, maxit and ftol must be positive")
	}
	return nil
}

// SetDefault sets default values
func (o *ContData) SetDefault() {
	o.Nsteps = 6
	o.Nudge = 0.2
}

// PostProcess checks data
func (o *ContData) PostProcess() error {
	if o.Nsteps < 2 {
		return chk.Err("cont.nsteps must be at least 2. nsteps=%d is invalid", o.Nsteps)
	}
	return nil
}

// SetDefault sets default values
func (o *CollocData) SetDefault() {
	o.Nodes = 1000
	o.Tol = 1e-8
	o.MaxIt = 50
	o.MeshTol = 1e-3
	o.MaxNodes = 8000
	o.Relax = 100
	o.Inner = 1
	o.Outer = 0
	o.Scale = 1
}

// PostProcess checks data
func (o *CollocData) PostProcess() error {
	if o.Nodes < 3 || o.MaxNodes < o.Nodes {
		return chk.Err("colloc: 3 ≤ nodes ≤ maxnodes is required. nodes=%d maxnodes=%d", o.Nodes, o.MaxNodes)
	}
	if o.Tol <= 0 || o.MeshTol <= 0 || o.Relax < 1 || o.MaxIt < 1 {
		return chk.Err("colloc: tol > 0, meshtol > 0, relax ≥ 1 and maxit ≥ 1 are required")
	}
	if o.Scale < 0 || o.Scale > 1 {
		return chk.Err("colloc.scale must be in [0,1]. scale=%g is invalid", o.Scale)
	}
	return nil
}

// SetDefault sets default values
func (o *ValveData) SetDefault() {
	o.Thresh = 1
	o.Mode = "nearest"
	o.Eps = 1e-30
}

// PostProcess checks data
func (o *ValveData) PostProcess() error {
	if o.Mode != "nearest" && o.Mode != "crossing" {
		return chk.Err("valve.mode %q is invalid. options are \"nearest\" and \"crossing\"", o.Mode)
	}
	if o.Eps <= 0 {
		return chk.Err("valve.eps must be positive. eps=%g is invalid", o.Eps)
	}
	return nil
}
