// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ham

import "github.com/cpmech/gosl/io"

func warnPfyel(format string, args ...interface{}) {
	io.Pfyel(format, args...)
}
