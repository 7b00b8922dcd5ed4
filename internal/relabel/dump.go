// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relabel

import "github.com/gufolabs/gufoagent/pkg/log"

// dumpRule is a diagnostic no-op: it logs the current active set and
// never alters it.
type dumpRule struct{}

func newDumpRule(_ Config) (Rule, error) {
	return &dumpRule{}, nil
}

func (r *dumpRule) Apply(active *Active) Outcome {
	for _, key := range active.Keys() {
		v, _ := active.Get(key)
		log.Debugf("relabel dump: %s=%q", key, v)
	}
	return Keep
}
