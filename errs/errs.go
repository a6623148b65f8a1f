// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package errs defines the three categories of failure in the simulation engine.
All errors returned by the engine wrap exactly one of Config, Sequence or Data,
so callers can classify them with errors.Is.  None of them are retried.

  - Config: an authoring mistake (bad selector, unknown parameter path, unknown
    pattern name, duplicate layer, shape mismatch).
  - Sequence: an API call made in the wrong state (Run before Init, mutating
    topology while running).
  - Data: malformed environment input, detected at load time.
*/
package errs

import "github.com/pkg/errors"

// Error is a category sentinel.  Values are compared by identity.
type Error struct{ string }

func (err Error) Error() string {
	return err.string
}

// The error categories
var (
	Config   = Error{"configuration error"}
	Sequence = Error{"sequencing error"}
	Data     = Error{"data error"}
)

// Configf returns a Config error with a formatted message and stack trace.
func Configf(format string, args ...interface{}) error {
	return errors.Wrapf(Config, format, args...)
}

// Sequencef returns a Sequence error with a formatted message and stack trace.
func Sequencef(format string, args ...interface{}) error {
	return errors.Wrapf(Sequence, format, args...)
}

// Dataf returns a Data error with a formatted message and stack trace.
func Dataf(format string, args ...interface{}) error {
	return errors.Wrapf(Data, format, args...)
}

// Kind returns the category sentinel wrapped by err, or nil if err does not
// belong to any category.
func Kind(err error) error {
	for _, k := range []Error{Config, Sequence, Data} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
