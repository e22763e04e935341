package market

import (
	"errors"

	"github.com/adshao/go-binance/v2/common"
)

var (
	// ErrInvalidSymbol marks a pair the exchange does not trade.
	ErrInvalidSymbol = errors.New("invalid symbol")

	// ErrInsufficientData marks a series too short to forecast.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrNoSymbols is fatal: the universe resolved to nothing.
	ErrNoSymbols = errors.New("no symbols resolved")
)

// binance error code for an unknown trading pair
const codeInvalidSymbol = -1121

// ClassifySymbolErr maps exchange SDK errors onto the local taxonomy.
// Anything that is not a recognized API rejection is treated as transient
// and left as-is for the caller to log and skip.
func ClassifySymbolErr(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *common.APIError
	if errors.As(err, &apiErr) && apiErr.Code == codeInvalidSymbol {
		return errors.Join(ErrInvalidSymbol, err)
	}
	return err
}
