package provider

import (
	"testing"

	"ascendex-bars/internal/provider/ascendex"
)

func TestAscendexProvider(t *testing.T) {
	p := NewAscendexProvider(ascendex.PolicyAbort)
	if p.GetName() != "AscendEX" {
		t.Errorf("name = %q", p.GetName())
	}
	if p.Policy != ascendex.PolicyAbort {
		t.Errorf("policy = %q", p.Policy)
	}
	if !p.Accept("ANY/THING") {
		t.Error("empty allow-list should accept everything")
	}

	p.SetSymbols([]string{"BTC/USDT"})
	if !p.Accept("BTC/USDT") || p.Accept("ETH/USDT") {
		t.Error("allow-list not applied")
	}

	var got string
	p.SetLogFunc(func(msg string) { got = msg })
	p.LogFunc("hi")
	if got != "hi" {
		t.Error("log func not wired to reader")
	}
	if err := p.Close(); err != nil {
		t.Error(err)
	}
}
