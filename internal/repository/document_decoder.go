package repository

import (
	"fmt"
	"reflect"
	"time"

	domainRepo "docapp/internal/domain/repository"

	"github.com/go-viper/mapstructure/v2"
)

const calendarDateLayout = "2006-01-02"

// decodeDocument copies a raw document payload into out.
// Stores disagree on number and time types (int64, float64, RFC3339
// strings, driver date types), so decoding is weakly typed.
func decodeDocument(fields map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
			timeValuerHook,
			calendarDateHook,
		),
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(fields); err != nil {
		return fmt.Errorf("%w: %v", domainRepo.ErrInvalidDocument, err)
	}
	return nil
}

// timeValuerHook accepts driver date types exposing a Time() method
// (the Mongo driver's primitive.DateTime does).
func timeValuerHook(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(time.Time{}) {
		return data, nil
	}
	if t, ok := data.(interface{ Time() time.Time }); ok {
		return t.Time(), nil
	}
	return data, nil
}

// calendarDateHook stores timestamp values decoded into string fields as a
// calendar date. Firestore Timestamps and Mongo dates reach here as time.Time
// or as a type with a Time() method.
func calendarDateHook(from, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}
	switch t := data.(type) {
	case time.Time:
		return t.UTC().Format(calendarDateLayout), nil
	case interface{ Time() time.Time }:
		return t.Time().UTC().Format(calendarDateLayout), nil
	}
	return data, nil
}
