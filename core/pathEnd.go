package core

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
)

// PathEnd identifies one side of a relay path: the chain together with the
// client, connection and channel identifiers used on it.
type PathEnd struct {
	ChainID      string `json:"chain-id" yaml:"chain-id"`
	ClientID     string `json:"client-id" yaml:"client-id"`
	ConnectionID string `json:"connection-id" yaml:"connection-id"`
	ChannelID    string `json:"channel-id" yaml:"channel-id"`
	PortID       string `json:"port-id" yaml:"port-id"`
	Order        string `json:"order" yaml:"order"`
	Version      string `json:"version" yaml:"version"`
}

func (pe *PathEnd) Validate() error {
	if pe.ChainID == "" {
		return errorsmod.Wrap(ErrInvalidChain, "path end chain id cannot be empty")
	}
	if err := ClientIdentifierValidator(pe.ClientID); err != nil {
		return err
	}
	if err := ConnectionIdentifierValidator(pe.ConnectionID); err != nil {
		return err
	}
	if err := ChannelIdentifierValidator(pe.ChannelID); err != nil {
		return err
	}
	if err := PortIdentifierValidator(pe.PortID); err != nil {
		return err
	}
	if OrderFromString(pe.Order) == OrderNone {
		return errorsmod.Wrapf(ErrInvalidIdentifier, "invalid channel order %s", pe.Order)
	}
	return nil
}

func (pe *PathEnd) ChannelOrder() Order {
	return OrderFromString(pe.Order)
}

func (pe *PathEnd) String() string {
	return fmt.Sprintf("%s:%s:%s:%s:%s", pe.ChainID, pe.ClientID, pe.ConnectionID, pe.PortID, pe.ChannelID)
}

// Path is a relay path between two chains.
type Path struct {
	Src *PathEnd `json:"src" yaml:"src"`
	Dst *PathEnd `json:"dst" yaml:"dst"`
}

func (p *Path) Validate() error {
	if p.Src == nil || p.Dst == nil {
		return errorsmod.Wrap(ErrInvalidChain, "path requires both ends")
	}
	if err := p.Src.Validate(); err != nil {
		return errorsmod.Wrap(err, "invalid src path end")
	}
	if err := p.Dst.Validate(); err != nil {
		return errorsmod.Wrap(err, "invalid dst path end")
	}
	if p.Src.ChainID == p.Dst.ChainID {
		return errorsmod.Wrap(ErrInvalidChain, "path ends cannot be on the same chain")
	}
	return nil
}

// Paths represent relay paths between chains, keyed by name.
type Paths map[string]*Path

// Get returns the configuration for a given path.
func (p Paths) Get(name string) (*Path, error) {
	pth, ok := p[name]
	if !ok {
		return nil, fmt.Errorf("path with name %s does not exist", name)
	}
	return pth, nil
}

// Add adds a path by its name.
func (p Paths) Add(name string, path *Path) error {
	if err := path.Validate(); err != nil {
		return err
	}
	if _, found := p[name]; found {
		return fmt.Errorf("path with name %s already exists", name)
	}
	p[name] = path
	return nil
}
