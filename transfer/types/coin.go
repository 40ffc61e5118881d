package types

import (
	"fmt"
	"regexp"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
)

// reDenom matches a base denomination or a full trace path. Slashes are
// permitted so traced denominations validate as-is.
var reDenom = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9/\-._]{2,127}$`)

// Coin is an amount of a single denomination. The denomination may be a base
// denomination, a full trace path or an ibc/{hash} voucher denomination.
type Coin struct {
	Denom  string      `json:"denom"`
	Amount sdkmath.Int `json:"amount"`
}

func NewCoin(denom string, amount sdkmath.Int) Coin {
	return Coin{Denom: denom, Amount: amount}
}

func (c Coin) Validate() error {
	if err := ValidateDenom(c.Denom); err != nil {
		return err
	}
	if c.Amount.IsNil() || !c.Amount.IsPositive() {
		return errorsmod.Wrapf(ErrInvalidAmount, "amount must be strictly positive: %s", c.Amount)
	}
	return nil
}

func (c Coin) String() string {
	return fmt.Sprintf("%s%s", c.Amount, c.Denom)
}

// ValidateDenom checks that the denomination is well formed.
func ValidateDenom(denom string) error {
	if !reDenom.MatchString(denom) {
		return errorsmod.Wrapf(ErrInvalidDenomTrace, "invalid denomination %q", denom)
	}
	return nil
}
