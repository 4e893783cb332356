package weather

import "errors"

var (
	ErrMissingField = errors.New("weather: missing field")
	ErrDecode       = errors.New("weather: invalid response")
	ErrStatus       = errors.New("weather: unexpected http status")
	ErrIcon         = errors.New("weather: icon download failed")
	ErrNoSnapshot   = errors.New("weather: no snapshot")
	ErrNoAPIKey     = errors.New("weather: no api key configured")
)

func IsMissingField(err error) bool { return errors.Is(err, ErrMissingField) }
func IsDecode(err error) bool       { return errors.Is(err, ErrDecode) }
func IsStatus(err error) bool       { return errors.Is(err, ErrStatus) }
