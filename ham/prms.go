// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ham

import (
	"strings"

	"github.com/MagSims/FastDipole-sub000/crystal"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// SiteInfoFromPrms builds a SiteInfo from a flat fun.Prms list, the same
// key/value parameter binding the teacher's material models use in their
// Init(prms fun.Prms) methods. Recognized keys: "s" (spin quantum number,
// required), "g" (isotropic g-factor, default 1). An unrecognized key is
// an error, matching the teacher's "parameter named %q is incorrect"
// convention.
func SiteInfoFromPrms(prms fun.Prms) (SiteInfo, error) {
	info := SiteInfo{G: crystal.Identity3()}
	sSet := false
	g := 1.0
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "s":
			info.S = p.V
			sSet = true
		case "g":
			g = p.V
		default:
			return SiteInfo{}, chk.Err("ham: parameter named %q is incorrect\n", p.N)
		}
	}
	if !sSet {
		return SiteInfo{}, chk.Err("ham: parameter \"s\" is required\n")
	}
	info.G = crystal.Mat3{{g, 0, 0}, {0, g, 0}, {0, 0, g}}
	return info, nil
}

// GetPrms returns an example fun.Prms list describing info, mirroring the
// teacher's GetPrms(example bool) convention used for documentation and
// round-trip configuration tests.
func (info SiteInfo) GetPrms() fun.Prms {
	return fun.Prms{
		&fun.Prm{N: "s", V: info.S},
		&fun.Prm{N: "g", V: info.G[0][0]},
	}
}
