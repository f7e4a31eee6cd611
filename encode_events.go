package equity

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/etnz/equity/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// MarshalJSON writes the event with a stable field order.
func (e Event) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", e.Date)
	w.Append("action", e.Action.String())
	w.Append("lot", e.Lot)
	w.Append("ticker", e.Ticker)
	w.Append("units", e.Units)
	w.Append("price", e.Price)
	w.Optional("fmv", e.FMV)
	return w.MarshalJSON()
}

// UnmarshalJSON reads an event written by MarshalJSON.
func (e *Event) UnmarshalJSON(b []byte) error {
	var temp struct {
		Date   date.Date `json:"date"`
		Action string    `json:"action"`
		Lot    uuid.UUID `json:"lot"`
		Ticker string    `json:"ticker"`
		Units  int64     `json:"units"`
		Price  Money     `json:"price"`
		FMV    Money     `json:"fmv"`
	}
	if err := json.Unmarshal(b, &temp); err != nil {
		return err
	}
	action, err := ParseAction(temp.Action)
	if err != nil {
		return err
	}
	*e = Event{
		Action: action,
		Lot:    temp.Lot,
		Ticker: temp.Ticker,
		Price:  temp.Price,
		Units:  temp.Units,
		Date:   temp.Date,
		FMV:    temp.FMV,
	}
	return nil
}

// EncodeEvents writes events as JSONL, one event per line.
func EncodeEvents(w io.Writer, events []Event) error {
	for _, e := range events {
		b, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("cannot encode %s event of lot %s: %w", e.Action, e.Lot, err)
		}
		b = append(b, '\n')
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

// DecodeEvents reads events from a JSONL stream, empty lines are skipped.
func DecodeEvents(r io.Reader) (Events, error) {
	var events Events
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		b := scanner.Bytes()
		if len(b) == 0 {
			continue
		}
		var e Event
		if err := json.Unmarshal(b, &e); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return events, nil
}
