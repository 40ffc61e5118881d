package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"
)

type setupType struct {
	logger *RelayLogger
	buffer bytes.Buffer
}

func beforeEach(t *testing.T) *setupType {
	var r setupType

	if err := InitLoggerWithWriter("INFO", "json", &r.buffer, false); err != nil {
		t.Fatal(err)
	}
	r.logger = GetLogger()

	return &r
}

type logType struct {
	Time         string
	Level        string
	Msg          string
	Stack        string
	Error        string
	Module       string
	ChainID      string `json:"chain_id"`
	SrcChainID   string `json:"src_chain_id"`
	DstChainID   string `json:"dst_chain_id"`
	SrcChannelID string `json:"src_channel_id"`
	DstChannelID string `json:"dst_channel_id"`
}

func parseResult(setup *setupType, t *testing.T) (string, logType) {
	raw := setup.buffer.String()
	var parsed logType

	if err := json.Unmarshal(setup.buffer.Bytes(), &parsed); err != nil {
		t.Fatalf("fail to parse log: %v: %s", err, raw)
	}
	return raw, parsed
}

func TestLogLevel(t *testing.T) {
	setup := beforeEach(t)

	setup.logger.Debug("test")
	if 0 < setup.buffer.Len() {
		t.Fatalf("debug log is output: %s", setup.buffer.String())
	}
}

func TestLogInfo(t *testing.T) {
	setup := beforeEach(t)

	setup.logger.Info("test")
	raw, r := parseResult(setup, t)

	if r.Level != "INFO" {
		t.Fatalf("mismatch level: %s", raw)
	}
	if r.Msg != "test" {
		t.Fatalf("mismatch msg: %s", raw)
	}
}

func TestLogError(t *testing.T) {
	setup := beforeEach(t)

	setup.logger.Error("testerr", fmt.Errorf("dummy"))
	raw, r := parseResult(setup, t)

	if r.Level != "ERROR" {
		t.Fatalf("mismatch level: %s", raw)
	}
	if r.Error != "dummy" {
		t.Fatalf("mismatch error: %s", raw)
	}
	if r.Stack == "" {
		t.Fatalf("missing stack: %s", raw)
	}
}

func TestLogWithModule(t *testing.T) {
	setup := beforeEach(t)

	setup.logger.WithModule("core.engine").Info("test")
	raw, r := parseResult(setup, t)

	if r.Module != "core.engine" {
		t.Fatalf("mismatch module: %s", raw)
	}
}

func TestLogWithChain(t *testing.T) {
	setup := beforeEach(t)

	setup.logger.WithChain("chain-a").Info("test")
	raw, r := parseResult(setup, t)

	if r.ChainID != "chain-a" {
		t.Fatalf("mismatch chain id: %s", raw)
	}
}

func TestLogWithChannel(t *testing.T) {
	setup := beforeEach(t)

	setup.logger.WithChannel("chain-a", "transfer", "channel-0", "chain-b", "transfer", "channel-1").Info("test")
	raw, r := parseResult(setup, t)

	if r.SrcChainID != "chain-a" || r.DstChainID != "chain-b" {
		t.Fatalf("mismatch chain pair: %s", raw)
	}
	if r.SrcChannelID != "channel-0" || r.DstChannelID != "channel-1" {
		t.Fatalf("mismatch channels: %s", raw)
	}
}

func TestInitLoggerRejectsBadInputs(t *testing.T) {
	if err := InitLogger("TRACE", "json", "stderr"); err == nil {
		t.Fatal("invalid level accepted")
	}
	if err := InitLogger("INFO", "xml", "stderr"); err == nil {
		t.Fatal("invalid format accepted")
	}
	if err := InitLogger("INFO", "json", "syslog"); err == nil {
		t.Fatal("invalid output accepted")
	}
}
