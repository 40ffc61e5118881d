package core_test

import (
	"context"
	"fmt"
	"time"

	ics23 "github.com/cosmos/ics23/go"

	"github.com/interchainlabs/relaycore/core"
)

// existenceProof builds a single-leaf ics23 existence proof for key/value and
// returns it with the root it hashes to.
func existenceProof(key, value []byte) (*ics23.CommitmentProof, []byte) {
	ex := &ics23.ExistenceProof{
		Key:   key,
		Value: value,
		Leaf:  ics23.TendermintSpec.LeafSpec,
	}
	root, err := ex.Calculate()
	if err != nil {
		panic(err)
	}
	return &ics23.CommitmentProof{Proof: &ics23.CommitmentProof_Exist{Exist: ex}}, root
}

// absenceProof builds an ics23 non-existence proof for key, anchored on a
// right neighbor, and returns it with its root.
func absenceProof(key []byte) (*ics23.CommitmentProof, []byte) {
	rightKey := append(append([]byte{}, key...), 0xff)
	right := &ics23.ExistenceProof{
		Key:   rightKey,
		Value: []byte("neighbor"),
		Leaf:  ics23.TendermintSpec.LeafSpec,
	}
	root, err := right.Calculate()
	if err != nil {
		panic(err)
	}
	nep := &ics23.NonExistenceProof{Key: key, Right: right}
	return &ics23.CommitmentProof{Proof: &ics23.CommitmentProof_Nonexist{Nonexist: nep}}, root
}

// stateEntry is one provable key in a stubProvider's store.
type stateEntry struct {
	value []byte
	proof *ics23.CommitmentProof
}

// stubProvider is an in-memory Provider. A nil entries map means every State
// call fails with failErr.
type stubProvider struct {
	endpoint string
	latest   core.Height
	ts       time.Time

	entries map[string]stateEntry
	packets map[string]*core.Packet
	acks    map[string][]byte
	ackSeqs []uint64
	commits []uint64

	failErr error

	stateCalls   int
	queriedPaths []string
}

func newStubProvider(endpoint string, latest core.Height) *stubProvider {
	return &stubProvider{
		endpoint: endpoint,
		latest:   latest,
		ts:       time.Unix(1700000000, 0),
		entries:  map[string]stateEntry{},
		packets:  map[string]*core.Packet{},
		acks:     map[string][]byte{},
	}
}

func (p *stubProvider) setState(path string, value []byte, proof *ics23.CommitmentProof) {
	p.entries[path] = stateEntry{value: value, proof: proof}
}

func (p *stubProvider) Endpoint() string { return p.endpoint }

func (p *stubProvider) LatestHeight(ctx context.Context) (core.Height, error) {
	if p.failErr != nil {
		return core.Height{}, p.failErr
	}
	return p.latest, nil
}

func (p *stubProvider) Timestamp(ctx context.Context, height core.Height) (time.Time, error) {
	if p.failErr != nil {
		return time.Time{}, p.failErr
	}
	return p.ts, nil
}

func (p *stubProvider) State(ctx context.Context, path string, height core.Height) ([]byte, *ics23.CommitmentProof, error) {
	p.stateCalls++
	p.queriedPaths = append(p.queriedPaths, path)
	if p.failErr != nil {
		return nil, nil, p.failErr
	}
	entry, ok := p.entries[path]
	if !ok {
		return nil, nil, fmt.Errorf("no stub entry for path %s", path)
	}
	return entry.value, entry.proof, nil
}

func (p *stubProvider) Packet(ctx context.Context, portID, channelID string, sequence uint64) (*core.Packet, error) {
	if p.failErr != nil {
		return nil, p.failErr
	}
	packet, ok := p.packets[packetKey(portID, channelID, sequence)]
	if !ok {
		return nil, fmt.Errorf("no stub packet for %s/%s#%d", portID, channelID, sequence)
	}
	return packet, nil
}

func (p *stubProvider) PacketCommitmentSequences(ctx context.Context, portID, channelID string) ([]uint64, error) {
	if p.failErr != nil {
		return nil, p.failErr
	}
	return p.commits, nil
}

func (p *stubProvider) PacketAcknowledgementSequences(ctx context.Context, portID, channelID string) ([]uint64, error) {
	if p.failErr != nil {
		return nil, p.failErr
	}
	return p.ackSeqs, nil
}

func (p *stubProvider) setAck(portID, channelID string, sequence uint64, data []byte) {
	p.acks[packetKey(portID, channelID, sequence)] = data
	p.ackSeqs = append(p.ackSeqs, sequence)
}

func (p *stubProvider) PacketAcknowledgement(ctx context.Context, portID, channelID string, sequence uint64) ([]byte, error) {
	if p.failErr != nil {
		return nil, p.failErr
	}
	ack, ok := p.acks[packetKey(portID, channelID, sequence)]
	if !ok {
		return nil, fmt.Errorf("no stub acknowledgement for %s/%s#%d", portID, channelID, sequence)
	}
	return ack, nil
}

func packetKey(portID, channelID string, sequence uint64) string {
	return fmt.Sprintf("%s/%s/%d", portID, channelID, sequence)
}

// stubLightClient serves fixed roots per revision height.
type stubLightClient struct {
	roots       map[uint64][]byte
	defaultRoot []byte
	latest      core.Height
	headers     []core.Header
	err         error
}

func (lc *stubLightClient) TrustedRoot(ctx context.Context, height core.Height) ([]byte, error) {
	if lc.err != nil {
		return nil, lc.err
	}
	if root, ok := lc.roots[height.RevisionHeight]; ok {
		return root, nil
	}
	return lc.defaultRoot, nil
}

func (lc *stubLightClient) LatestTrustedHeight(ctx context.Context) (core.Height, error) {
	if lc.err != nil {
		return core.Height{}, lc.err
	}
	return lc.latest, nil
}

func (lc *stubLightClient) SetupHeadersForUpdate(ctx context.Context, trustedHeight, targetHeight core.Height) ([]core.Header, error) {
	if lc.err != nil {
		return nil, lc.err
	}
	if len(lc.headers) > 0 {
		return lc.headers, nil
	}
	return []core.Header{{Height: targetHeight, Timestamp: time.Unix(1700000000, 0)}}, nil
}

// acceptAllVerifier bypasses proof verification so provider-level behavior can
// be exercised without full proof fixtures.
type acceptAllVerifier struct{}

func (acceptAllVerifier) VerifyMembership(root []byte, proof *core.Proof, path string, value []byte) error {
	return nil
}

func (acceptAllVerifier) VerifyNonMembership(root []byte, proof *core.Proof, path string) error {
	return nil
}

// recordingSubmitter collects every submitted datagram.
type recordingSubmitter struct {
	batches [][]core.Datagram
	err     error
}

func (s *recordingSubmitter) SubmitDatagrams(ctx context.Context, msgs []core.Datagram) error {
	if s.err != nil {
		return s.err
	}
	batch := append([]core.Datagram{}, msgs...)
	s.batches = append(s.batches, batch)
	return nil
}

func (s *recordingSubmitter) all() []core.Datagram {
	var out []core.Datagram
	for _, batch := range s.batches {
		out = append(out, batch...)
	}
	return out
}
