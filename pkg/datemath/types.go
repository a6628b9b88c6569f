package datemath

import "errors"

// DateLayout is the plain calendar-date layout.
const DateLayout = "2006-01-02"

var ErrInvalidExpression = errors.New("invalid date expression")
