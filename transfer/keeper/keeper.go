package keeper

import (
	"context"
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	dbm "github.com/cometbft/cometbft-db"

	"github.com/interchainlabs/relaycore/core"
	"github.com/interchainlabs/relaycore/log"
	"github.com/interchainlabs/relaycore/transfer/types"
)

// Keeper owns the transfer module's state: parameters, denomination traces,
// settlement records and escrow totals. State lives in a cometbft-db store so
// the module carries the same persistence guarantees as the rest of the node.
type Keeper struct {
	store dbm.DB

	authKeeper    types.AccountKeeper
	bankKeeper    types.BankKeeper
	channelKeeper types.ChannelKeeper
	portKeeper    types.PortKeeper
	scopedKeeper  types.ScopedKeeper
}

func NewKeeper(
	store dbm.DB,
	authKeeper types.AccountKeeper,
	bankKeeper types.BankKeeper,
	channelKeeper types.ChannelKeeper,
	portKeeper types.PortKeeper,
	scopedKeeper types.ScopedKeeper,
) Keeper {
	return Keeper{
		store:         store,
		authKeeper:    authKeeper,
		bankKeeper:    bankKeeper,
		channelKeeper: channelKeeper,
		portKeeper:    portKeeper,
		scopedKeeper:  scopedKeeper,
	}
}

func (k Keeper) logger() *log.RelayLogger {
	return log.GetLogger().WithModule("transfer.keeper")
}

// GetParams returns the module parameters, defaulting when unset.
func (k Keeper) GetParams() types.Params {
	bz, err := k.store.Get(types.ParamsKey)
	if err != nil || bz == nil {
		return types.DefaultParams()
	}
	var params types.Params
	if err := json.Unmarshal(bz, &params); err != nil {
		return types.DefaultParams()
	}
	return params
}

// SetParams stores the module parameters.
func (k Keeper) SetParams(params types.Params) error {
	bz, err := json.Marshal(params)
	if err != nil {
		return errorsmod.Wrap(err, "failed to marshal params")
	}
	return k.store.Set(types.ParamsKey, bz)
}

// GetSendEnabled reports whether outgoing transfers are allowed.
func (k Keeper) GetSendEnabled() bool {
	return k.GetParams().SendEnabled
}

// GetReceiveEnabled reports whether incoming transfers are allowed.
func (k Keeper) GetReceiveEnabled() bool {
	return k.GetParams().ReceiveEnabled
}

// GetDenomTrace returns the trace registered under the given hash.
func (k Keeper) GetDenomTrace(traceHash []byte) (types.DenomTrace, bool) {
	bz, err := k.store.Get(types.DenomTraceKey(traceHash))
	if err != nil || bz == nil {
		return types.DenomTrace{}, false
	}
	var trace types.DenomTrace
	if err := json.Unmarshal(bz, &trace); err != nil {
		return types.DenomTrace{}, false
	}
	return trace, true
}

// HasDenomTrace reports whether a trace is registered under the given hash.
func (k Keeper) HasDenomTrace(traceHash []byte) bool {
	has, err := k.store.Has(types.DenomTraceKey(traceHash))
	return err == nil && has
}

// SetDenomTrace registers a denomination trace. Registration is idempotent:
// the key is the hash of the trace itself.
func (k Keeper) SetDenomTrace(trace types.DenomTrace) error {
	bz, err := json.Marshal(trace)
	if err != nil {
		return errorsmod.Wrap(err, "failed to marshal denom trace")
	}
	return k.store.Set(types.DenomTraceKey(trace.Hash()), bz)
}

// GetAllDenomTraces returns every registered trace.
func (k Keeper) GetAllDenomTraces() ([]types.DenomTrace, error) {
	prefix := types.DenomTraceKey(nil)
	it, err := k.store.Iterator(prefix, append(prefix, 0xff))
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var traces []types.DenomTrace
	for ; it.Valid(); it.Next() {
		var trace types.DenomTrace
		if err := json.Unmarshal(it.Value(), &trace); err != nil {
			return nil, errorsmod.Wrap(err, "corrupt denom trace entry")
		}
		traces = append(traces, trace)
	}
	return traces, it.Error()
}

// HasPacketSettled reports whether a packet's lifecycle already completed on
// the sending side.
func (k Keeper) HasPacketSettled(portID, channelID string, sequence uint64) bool {
	has, err := k.store.Has(types.PacketSettlementKey(portID, channelID, sequence))
	return err == nil && has
}

// setPacketSettled records that a packet's lifecycle completed. A refund or a
// successful ack observed after this record is a no-op.
func (k Keeper) setPacketSettled(portID, channelID string, sequence uint64) error {
	return k.store.Set(types.PacketSettlementKey(portID, channelID, sequence), []byte{0x01})
}

// GetTotalEscrowForDenom returns the total amount of the denomination held
// across all escrow accounts.
func (k Keeper) GetTotalEscrowForDenom(denom string) sdkmath.Int {
	bz, err := k.store.Get(types.TotalEscrowForDenomKey(denom))
	if err != nil || bz == nil {
		return sdkmath.ZeroInt()
	}
	amount, ok := sdkmath.NewIntFromString(string(bz))
	if !ok {
		return sdkmath.ZeroInt()
	}
	return amount
}

// SetTotalEscrowForDenom stores the escrow total for a denomination. Negative
// totals indicate a bookkeeping bug and are rejected.
func (k Keeper) SetTotalEscrowForDenom(denom string, amount sdkmath.Int) error {
	if amount.IsNegative() {
		return errorsmod.Wrapf(types.ErrInvalidAmount, "escrow total cannot be negative: %s", amount)
	}
	return k.store.Set(types.TotalEscrowForDenomKey(denom), []byte(amount.String()))
}

// BindPort binds the transfer port and claims the associated capability.
func (k Keeper) BindPort(ctx context.Context, portID string) error {
	capability := k.portKeeper.BindPort(ctx, portID)
	if err := k.scopedKeeper.ClaimCapability(ctx, capability, core.PortPath(portID)); err != nil {
		return err
	}
	return k.store.Set(types.PortKey, []byte(portID))
}

// GetPort returns the port the module is bound to.
func (k Keeper) GetPort() string {
	bz, err := k.store.Get(types.PortKey)
	if err != nil || bz == nil {
		return types.PortID
	}
	return string(bz)
}

// IsBound reports whether the module owns the capability for the port.
func (k Keeper) IsBound(ctx context.Context, portID string) bool {
	_, ok := k.scopedKeeper.GetCapability(ctx, core.PortPath(portID))
	return ok
}

// ClaimCapability wraps the scoped keeper for channel capability claims made
// during handshakes.
func (k Keeper) ClaimCapability(ctx context.Context, capability *types.Capability, name string) error {
	return k.scopedKeeper.ClaimCapability(ctx, capability, name)
}

// AuthenticateCapability wraps the scoped keeper capability check.
func (k Keeper) AuthenticateCapability(ctx context.Context, capability *types.Capability, name string) bool {
	return k.scopedKeeper.AuthenticateCapability(ctx, capability, name)
}
