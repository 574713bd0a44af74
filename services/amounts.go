package services

import "github.com/anjiri1684/pickleball_coach/utils"

// checkAmount rejects money values the numeric(10,2) columns would round or overflow.
func checkAmount(label string, v float64) error {
	switch {
	case v < 0:
		return invalid("%s cannot be negative", label)
	case v > utils.MaxAmount:
		return invalid("%s cannot exceed 99999999.99", label)
	case !utils.WholeCents(v):
		return invalid("%s cannot have more than two decimal places", label)
	}
	return nil
}
