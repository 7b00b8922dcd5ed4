// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package natsline

import (
	"fmt"
	"time"

	influx "github.com/influxdata/line-protocol/v2/lineprotocol"

	"github.com/gufolabs/gufoagent/pkg/label"
	"github.com/gufolabs/gufoagent/pkg/measure"
)

// decodeLine parses one InfluxDB line-protocol message into Measures,
// one per field (a line-protocol point packs multiple fields; each
// becomes its own Measure sharing the point's tags). Grounded on the
// teacher's pkg/nats/influxDecoder.go decode loop, adapted to produce
// measure.Measure instead of a CCMessage.
//
// A zero decoded time means the point carried no timestamp, preserved
// here as a nil Measure.Timestamp so the store falls back to the batch
// arrival time — retaining the "timestamp sometimes present" behavior
// spec.md §9's second open question calls out.
func decodeLine(data []byte) ([]measure.Measure, error) {
	dec := influx.NewDecoderWithBytes(data)
	var out []measure.Measure

	for dec.Next() {
		name, err := dec.Measurement()
		if err != nil {
			return nil, fmt.Errorf("natsline: reading measurement: %w", err)
		}

		var tags []label.Label
		for {
			key, val, err := dec.NextTag()
			if err != nil {
				return nil, fmt.Errorf("natsline: reading tag: %w", err)
			}
			if key == nil {
				break
			}
			tags = append(tags, label.Label{Key: string(key), Value: string(val)})
		}
		labels := label.New(tags...)

		start := len(out)
		for {
			key, val, err := dec.NextField()
			if err != nil {
				return nil, fmt.Errorf("natsline: reading field: %w", err)
			}
			if key == nil {
				break
			}

			v, err := fieldValue(val)
			if err != nil {
				return nil, fmt.Errorf("natsline: field %s: %w", key, err)
			}

			fieldName := string(name)
			if string(key) != "value" {
				fieldName = fieldName + "_" + string(key)
			}
			out = append(out, measure.Measure{
				Name:   fieldName,
				Labels: labels,
				Value:  v,
			})
		}

		// The decoder reads a point's sections in order, so the time is
		// read only after every field has been consumed.
		t, err := dec.Time(influx.Nanosecond, time.Time{})
		if err != nil {
			return nil, fmt.Errorf("natsline: reading time: %w", err)
		}
		if !t.IsZero() {
			ts := t.Unix()
			for i := start; i < len(out); i++ {
				out[i].Timestamp = &ts
			}
		}
	}
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("natsline: decode error: %w", err)
	}
	return out, nil
}

func fieldValue(v influx.Value) (measure.Value, error) {
	switch v.Kind() {
	case influx.Int:
		return measure.GaugeSigned(v.IntV()), nil
	case influx.Uint:
		return measure.Gauge(v.UintV()), nil
	case influx.Float:
		return measure.GaugeFloat(float32(v.FloatV())), nil
	case influx.Bool:
		if v.BoolV() {
			return measure.Gauge(1), nil
		}
		return measure.Gauge(0), nil
	default:
		return measure.Value{}, fmt.Errorf("unsupported field kind %v", v.Kind())
	}
}
