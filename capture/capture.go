// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package capture records messages exchanged with a peer as a sequence of CBOR
// records, and reads them back for replay
package capture

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/blinklabs-io/gobtcwire/message"
	_cbor "github.com/fxamacker/cbor/v2"
	"github.com/jinzhu/copier"
)

// Direction tells whether a recorded message was sent or received
type Direction uint8

const (
	DirectionInbound  Direction = 1
	DirectionOutbound Direction = 2
)

func (d Direction) String() string {
	switch d {
	case DirectionInbound:
		return "in"
	case DirectionOutbound:
		return "out"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

var ErrInvalidRecord = errors.New("invalid capture record")

// Record is a single captured message
type Record struct {
	// Tells the CBOR encoder to encode the struct as an array
	_               struct{} `cbor:",toarray"`
	Timestamp       time.Time
	Direction       Direction
	Magic           uint32
	Command         string
	PayloadLength   uint32
	PayloadChecksum uint32
	Payload         []byte
}

var headerConverters = []copier.TypeConverter{
	{
		SrcType: message.Command(0),
		DstType: copier.String,
		Fn: func(src any) (any, error) {
			cmd, ok := src.(message.Command)
			if !ok {
				return nil, fmt.Errorf("unexpected command type %T", src)
			}
			return cmd.String(), nil
		},
	},
}

// NewRecord captures msg at the given time
func NewRecord(ts time.Time, direction Direction, msg *message.Message) (*Record, error) {
	r := &Record{
		Timestamp: ts.UTC(),
		Direction: direction,
		Payload:   msg.Payload(),
	}
	header := msg.Header()
	if err := copier.CopyWithOption(
		r,
		&header,
		copier.Option{Converters: headerConverters},
	); err != nil {
		return nil, fmt.Errorf("copy header: %w", err)
	}
	return r, nil
}

// Header rebuilds the message header from the record
func (r *Record) Header() (message.Header, error) {
	cmd, err := message.ParseCommand(r.Command)
	if err != nil {
		return message.Header{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return message.Header{
		Magic:           message.Magic(r.Magic),
		Command:         cmd,
		PayloadLength:   r.PayloadLength,
		PayloadChecksum: r.PayloadChecksum,
	}, nil
}

// Message rebuilds the captured message and verifies its checksum
func (r *Record) Message() (*message.Message, error) {
	header, err := r.Header()
	if err != nil {
		return nil, err
	}
	msg, err := message.FromWire(header, r.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	if !msg.IsChecksumValid() {
		return nil, fmt.Errorf(
			"%w: %w",
			ErrInvalidRecord,
			message.ErrChecksumMismatch,
		)
	}
	return msg, nil
}

var (
	encMode _cbor.EncMode
	decMode _cbor.DecMode
)

func init() {
	var err error
	encOpts := _cbor.EncOptions{
		Time: _cbor.TimeRFC3339Nano,
	}
	if encMode, err = encOpts.EncMode(); err != nil {
		panic(fmt.Sprintf("capture: CBOR encoder options: %s", err))
	}
	decOpts := _cbor.DecOptions{
		ExtraReturnErrors: _cbor.ExtraDecErrorUnknownField,
	}
	if decMode, err = decOpts.DecMode(); err != nil {
		panic(fmt.Sprintf("capture: CBOR decoder options: %s", err))
	}
}

// Writer appends records to an underlying writer. It is safe for concurrent use
type Writer struct {
	mutex   sync.Mutex
	encoder *_cbor.Encoder
	nowFunc func() time.Time
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{
		encoder: encMode.NewEncoder(w),
		nowFunc: time.Now,
	}
}

// Write records msg with the current time
func (w *Writer) Write(direction Direction, msg *message.Message) error {
	record, err := NewRecord(w.nowFunc(), direction, msg)
	if err != nil {
		return err
	}
	return w.WriteRecord(record)
}

func (w *Writer) WriteRecord(record *Record) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if err := w.encoder.Encode(record); err != nil {
		return fmt.Errorf("encode capture record: %w", err)
	}
	return nil
}

// Reader reads records written by a Writer
type Reader struct {
	decoder *_cbor.Decoder
}

func NewReader(r io.Reader) *Reader {
	return &Reader{
		decoder: decMode.NewDecoder(r),
	}
}

// Read returns the next record, or io.EOF when the input is exhausted
func (r *Reader) Read() (*Record, error) {
	record := &Record{}
	if err := r.decoder.Decode(record); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return record, nil
}

// ReadAll returns every remaining record
func (r *Reader) ReadAll() ([]*Record, error) {
	var ret []*Record
	for {
		record, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return ret, nil
			}
			return ret, err
		}
		ret = append(ret, record)
	}
}
