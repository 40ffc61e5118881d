package keeper_test

import (
	"context"
	"fmt"
	"testing"

	sdkmath "cosmossdk.io/math"
	dbm "github.com/cometbft/cometbft-db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interchainlabs/relaycore/core"
	"github.com/interchainlabs/relaycore/transfer/keeper"
	"github.com/interchainlabs/relaycore/transfer/types"
)

type bankOp struct {
	kind   string
	from   string
	to     string
	module string
	coin   types.Coin
}

// mockBank records every balance mutation in order.
type mockBank struct {
	ops     []bankOp
	sendErr error
}

func (m *mockBank) SendCoins(ctx context.Context, fromAddr, toAddr string, coin types.Coin) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.ops = append(m.ops, bankOp{kind: "send", from: fromAddr, to: toAddr, coin: coin})
	return nil
}

func (m *mockBank) MintCoins(ctx context.Context, moduleName string, coin types.Coin) error {
	m.ops = append(m.ops, bankOp{kind: "mint", module: moduleName, coin: coin})
	return nil
}

func (m *mockBank) BurnCoins(ctx context.Context, moduleName string, coin types.Coin) error {
	m.ops = append(m.ops, bankOp{kind: "burn", module: moduleName, coin: coin})
	return nil
}

func (m *mockBank) SendCoinsFromAccountToModule(ctx context.Context, senderAddr, moduleName string, coin types.Coin) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.ops = append(m.ops, bankOp{kind: "toModule", from: senderAddr, module: moduleName, coin: coin})
	return nil
}

func (m *mockBank) SendCoinsFromModuleToAccount(ctx context.Context, moduleName, recipientAddr string, coin types.Coin) error {
	m.ops = append(m.ops, bankOp{kind: "fromModule", to: recipientAddr, module: moduleName, coin: coin})
	return nil
}

type mockAccount struct{}

func (mockAccount) GetModuleAddress(moduleName string) string {
	return "addr-" + moduleName
}

type mockChannel struct {
	channels     map[string]core.ChannelEnd
	nextSequence uint64
	sentData     [][]byte
	sendErr      error
}

func chanKey(portID, channelID string) string {
	return fmt.Sprintf("%s/%s", portID, channelID)
}

func (m *mockChannel) GetChannel(ctx context.Context, portID, channelID string) (core.ChannelEnd, bool) {
	ch, ok := m.channels[chanKey(portID, channelID)]
	return ch, ok
}

func (m *mockChannel) GetNextSequenceSend(ctx context.Context, portID, channelID string) (uint64, bool) {
	return m.nextSequence, true
}

func (m *mockChannel) SendPacket(
	ctx context.Context,
	channelCap *types.Capability,
	sourcePort string,
	sourceChannel string,
	timeoutHeight core.Height,
	timeoutTimestamp uint64,
	data []byte,
) (uint64, error) {
	if m.sendErr != nil {
		return 0, m.sendErr
	}
	seq := m.nextSequence
	m.nextSequence++
	m.sentData = append(m.sentData, data)
	return seq, nil
}

type mockPort struct {
	nextIndex uint64
}

func (m *mockPort) BindPort(ctx context.Context, portID string) *types.Capability {
	m.nextIndex++
	return types.NewCapability(m.nextIndex)
}

type mockScoped struct {
	caps map[string]*types.Capability
}

func (m *mockScoped) GetCapability(ctx context.Context, name string) (*types.Capability, bool) {
	capability, ok := m.caps[name]
	return capability, ok
}

func (m *mockScoped) AuthenticateCapability(ctx context.Context, capability *types.Capability, name string) bool {
	return m.caps[name] == capability
}

func (m *mockScoped) ClaimCapability(ctx context.Context, capability *types.Capability, name string) error {
	m.caps[name] = capability
	return nil
}

type fixture struct {
	keeper  keeper.Keeper
	bank    *mockBank
	channel *mockChannel
	scoped  *mockScoped
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	bank := &mockBank{}
	channel := &mockChannel{channels: map[string]core.ChannelEnd{}, nextSequence: 1}
	scoped := &mockScoped{caps: map[string]*types.Capability{}}
	k := keeper.NewKeeper(dbm.NewMemDB(), mockAccount{}, bank, channel, &mockPort{}, scoped)
	return &fixture{keeper: k, bank: bank, channel: channel, scoped: scoped}
}

// openChannel installs an open channel end and its capability.
func (f *fixture) openChannel(portID, channelID, cpPortID, cpChannelID string) {
	f.channel.channels[chanKey(portID, channelID)] = core.ChannelEnd{
		State:          core.ChannelOpen,
		Ordering:       core.OrderUnordered,
		Counterparty:   core.ChannelCounterparty{PortID: cpPortID, ChannelID: cpChannelID},
		ConnectionHops: []string{"connection-0"},
		Version:        types.Version,
	}
	f.scoped.caps[core.ChannelCapabilityPath(portID, channelID)] = types.NewCapability(1)
}

func TestParamsRoundTrip(t *testing.T) {
	f := newFixture(t)

	// Unset params read back as the defaults.
	assert.Equal(t, types.DefaultParams(), f.keeper.GetParams())
	assert.True(t, f.keeper.GetSendEnabled())
	assert.True(t, f.keeper.GetReceiveEnabled())

	require.NoError(t, f.keeper.SetParams(types.NewParams(false, true)))
	assert.False(t, f.keeper.GetSendEnabled())
	assert.True(t, f.keeper.GetReceiveEnabled())
}

func TestDenomTraceRegistry(t *testing.T) {
	f := newFixture(t)

	trace := types.ParseDenomTrace("transfer/channel-0/uatom")
	assert.False(t, f.keeper.HasDenomTrace(trace.Hash()))

	require.NoError(t, f.keeper.SetDenomTrace(trace))
	assert.True(t, f.keeper.HasDenomTrace(trace.Hash()))

	got, found := f.keeper.GetDenomTrace(trace.Hash())
	require.True(t, found)
	assert.Equal(t, trace, got)

	other := types.ParseDenomTrace("transfer/channel-1/uosmo")
	require.NoError(t, f.keeper.SetDenomTrace(other))

	all, err := f.keeper.GetAllDenomTraces()
	require.NoError(t, err)
	assert.ElementsMatch(t, []types.DenomTrace{trace, other}, all)
}

func TestTotalEscrowAccounting(t *testing.T) {
	f := newFixture(t)

	assert.True(t, f.keeper.GetTotalEscrowForDenom("uatom").IsZero())

	require.NoError(t, f.keeper.SetTotalEscrowForDenom("uatom", sdkmath.NewInt(250)))
	assert.Equal(t, sdkmath.NewInt(250), f.keeper.GetTotalEscrowForDenom("uatom"))

	// Totals are tracked per denomination.
	assert.True(t, f.keeper.GetTotalEscrowForDenom("uosmo").IsZero())

	err := f.keeper.SetTotalEscrowForDenom("uatom", sdkmath.NewInt(-1))
	require.Error(t, err)
	assert.Equal(t, sdkmath.NewInt(250), f.keeper.GetTotalEscrowForDenom("uatom"))
}

func TestBindPort(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.False(t, f.keeper.IsBound(ctx, types.PortID))
	assert.Equal(t, types.PortID, f.keeper.GetPort())

	require.NoError(t, f.keeper.BindPort(ctx, types.PortID))
	assert.True(t, f.keeper.IsBound(ctx, types.PortID))
	assert.Equal(t, types.PortID, f.keeper.GetPort())
}

func TestAuthenticateCapability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	capability := types.NewCapability(7)
	name := core.ChannelCapabilityPath("transfer", "channel-0")
	require.NoError(t, f.keeper.ClaimCapability(ctx, capability, name))

	assert.True(t, f.keeper.AuthenticateCapability(ctx, capability, name))
	// Identity matters, not the index.
	assert.False(t, f.keeper.AuthenticateCapability(ctx, types.NewCapability(7), name))
}
