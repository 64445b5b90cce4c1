package agent

import (
	"testing"
)

func testScript() Script {
	return Script{
		DefaultResponse: "Sorry, I didn't get that.",
		Responses: map[string]string{
			"delivery":      "We deliver countrywide within 3 days.",
			"delivery time": "Delivery takes 1-3 business days.",
			"refund":        "Refunds are processed within 7 days.",
		},
	}
}

func TestAgent_KeywordMatch(t *testing.T) {
	a := New(testScript())
	got := a.Reply("What is your REFUND policy?")
	if got != "Refunds are processed within 7 days." {
		t.Errorf("Reply = %q, want refund response", got)
	}
}

func TestAgent_LongestKeywordWins(t *testing.T) {
	a := New(testScript())
	got := a.Reply("how long is the delivery time?")
	if got != "Delivery takes 1-3 business days." {
		t.Errorf("Reply = %q, want the more specific delivery time response", got)
	}
}

func TestAgent_EqualLengthKeywordsStableOrder(t *testing.T) {
	script := Script{
		DefaultResponse: "Sorry, I didn't get that.",
		Responses: map[string]string{
			"mpesa": "We accept M-Pesa paybill 123456.",
			"track": "Track your order from the profile page.",
		},
	}
	// Both keywords are five characters; the lexicographically earlier one
	// must win every time, not whichever the map yields first.
	for i := 0; i < 20; i++ {
		a := New(script)
		if got := a.Reply("can I track my mpesa order?"); got != "We accept M-Pesa paybill 123456." {
			t.Fatalf("Reply = %q, want the mpesa response on every run", got)
		}
	}
}

func TestAgent_DefaultResponse(t *testing.T) {
	a := New(testScript())
	if got := a.Reply("open the pod bay doors"); got != "Sorry, I didn't get that." {
		t.Errorf("Reply = %q, want default response", got)
	}
}
