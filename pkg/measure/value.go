// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package measure implements the Value tagged variant and Measure
// sample type produced by collectors and consumed by the sender.
package measure

import (
	"strconv"
)

// Kind tags which case a Value holds.
type Kind uint8

const (
	// KindCounter is a monotonically increasing unsigned integer.
	KindCounter Kind = iota
	// KindGauge is an unsigned integer point-in-time value.
	KindGauge
	// KindGaugeSigned is a signed integer point-in-time value.
	KindGaugeSigned
	// KindGaugeFloat is a floating-point point-in-time value.
	KindGaugeFloat
	// KindCounterFloat is a monotonically increasing floating-point value.
	KindCounterFloat
)

// OpenMetricsType is the wire-format TYPE string for this case.
// Counter/CounterFloat map to "counter"; everything else maps to
// "gauge" (spec.md §3).
func (k Kind) OpenMetricsType() string {
	if k == KindCounter || k == KindCounterFloat {
		return "counter"
	}
	return "gauge"
}

// Value is an immutable tagged variant over the five numeric cases
// spec.md §3 defines. Zero value is Counter(0).
type Value struct {
	kind   Kind
	u      uint64
	i      int64
	f      float64
	isFl32 bool // f was produced from a float32; render matches gufo_agent's f32 precision
}

// Counter builds a Counter(u64) value.
func Counter(v uint64) Value { return Value{kind: KindCounter, u: v} }

// Gauge builds a Gauge(u64) value.
func Gauge(v uint64) Value { return Value{kind: KindGauge, u: v} }

// GaugeSigned builds a GaugeSigned(i64) value.
func GaugeSigned(v int64) Value { return Value{kind: KindGaugeSigned, i: v} }

// GaugeFloat builds a GaugeFloat(f32) value.
func GaugeFloat(v float32) Value { return Value{kind: KindGaugeFloat, f: float64(v), isFl32: true} }

// CounterFloat builds a CounterFloat(f32) value.
func CounterFloat(v float32) Value {
	return Value{kind: KindCounterFloat, f: float64(v), isFl32: true}
}

// Kind reports which case v holds.
func (v Value) Kind() Kind { return v.kind }

// String renders v's natural decimal form per spec.md §4.6: integers as
// decimal, floats without forced precision, signed gauges carry a
// leading '-' for negatives (handled naturally by strconv).
func (v Value) String() string {
	switch v.kind {
	case KindCounter, KindGauge:
		return strconv.FormatUint(v.u, 10)
	case KindGaugeSigned:
		return strconv.FormatInt(v.i, 10)
	case KindGaugeFloat, KindCounterFloat:
		bitSize := 64
		if v.isFl32 {
			bitSize = 32
		}
		return strconv.FormatFloat(v.f, 'g', -1, bitSize)
	default:
		return "0"
	}
}

// Float64 returns v's numeric value widened to float64, for callers
// that need to compare magnitudes rather than wire text.
func (v Value) Float64() float64 {
	switch v.kind {
	case KindCounter, KindGauge:
		return float64(v.u)
	case KindGaugeSigned:
		return float64(v.i)
	default:
		return v.f
	}
}
