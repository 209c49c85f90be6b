package handlers

import (
	"net/url"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Query parameter helpers for the /filter endpoints. An absent
// parameter yields nil, a malformed one an error.

func boolParam(query url.Values, name string) (*bool, error) {
	raw := query.Get(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// adminViewParam reads the adminUI flag admins pass to list across
// accommodations. Anything but an explicit true means off.
func adminViewParam(query url.Values) bool {
	flag, err := boolParam(query, "adminUI")
	return err == nil && flag != nil && *flag
}

func floatParam(query url.Values, name string) (*float64, error) {
	raw := query.Get(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func timeParam(query url.Values, name string) (*time.Time, error) {
	raw := query.Get(name)
	if raw == "" {
		return nil, nil
	}
	value, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func objectIDParam(query url.Values, name string) (*primitive.ObjectID, error) {
	raw := query.Get(name)
	if raw == "" {
		return nil, nil
	}
	value, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
