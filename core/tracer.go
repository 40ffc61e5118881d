package core

import (
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/interchainlabs/relaycore/core")
