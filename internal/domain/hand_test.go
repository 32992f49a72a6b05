package domain

import (
	"reflect"
	"testing"
)

func TestTrumpCountsPermanentTrumpsCountEverywhere(t *testing.T) {
	hand := []Card{{Clubs, Jack}, {Spades, Queen}, {Hearts, Seven}}
	counts := TrumpCounts(hand)
	for _, s := range allSuits {
		want := 2 // the two permanent trumps (Clubs J, Spades Q) count in every suit
		if s == Hearts {
			want = 3 // plus the Hearts Seven
		}
		if counts[s] != want {
			t.Errorf("counts[%v] = %d, want %d", s, counts[s], want)
		}
	}
}

func TestAvailableBidsMinimumLengthFive(t *testing.T) {
	hand := []Card{
		{Clubs, Jack}, {Spades, Jack}, {Hearts, Jack}, {Diamonds, Jack},
		{Clubs, Queen}, {Clubs, King},
	}
	opts := AvailableBids(hand, nil, nil)
	for _, o := range opts {
		if o.Length < 5 {
			t.Errorf("got bid option with length %d < 5: %+v", o.Length, o)
		}
	}
	// 6 trumps under Clubs (4 permanent + Clubs Q + Clubs K already counted
	// among permanents for Q) -> exactly one qualifying option at length 6.
	found := false
	for _, o := range opts {
		if o.Suit == Clubs && o.Length == 6 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a 6-length Clubs option, got %+v", opts)
	}
}

func TestAvailableBidsClubsMatchAtEqualLength(t *testing.T) {
	hand := []Card{
		{Clubs, Jack}, {Spades, Jack}, {Hearts, Jack}, {Diamonds, Jack},
		{Clubs, Queen}, {Clubs, King},
	}
	length, suit := 6, Hearts
	opts := AvailableBids(hand, &length, &suit)

	var clubMatch *BidOption
	for i, o := range opts {
		if o.Suit == Clubs && o.Length == 6 {
			clubMatch = &opts[i]
		}
	}
	if clubMatch == nil {
		t.Fatalf("expected an equal-length clubs-match option, got %+v", opts)
	}
	if !clubMatch.IsClubMatch {
		t.Errorf("expected IsClubMatch=true on the equal-length clubs option")
	}
}

func TestAvailableBidsNoClubsMatchWhenCurrentIsAlreadyClubs(t *testing.T) {
	hand := []Card{
		{Clubs, Jack}, {Spades, Jack}, {Hearts, Jack}, {Diamonds, Jack},
		{Clubs, Queen}, {Clubs, King},
	}
	length, suit := 6, Clubs
	opts := AvailableBids(hand, &length, &suit)
	for _, o := range opts {
		if o.Length == 6 {
			t.Errorf("no bid should match the current highest exactly when suits are equal: %+v", o)
		}
	}
}

func TestAvailableBidsSortedAscendingClubsLast(t *testing.T) {
	hand := []Card{
		{Clubs, Jack}, {Spades, Jack}, {Hearts, Jack}, {Diamonds, Jack},
		{Clubs, Queen}, {Spades, Queen},
		{Clubs, King}, {Spades, King},
	}
	opts := AvailableBids(hand, nil, nil)
	var lengths []int
	for _, o := range opts {
		lengths = append(lengths, o.Length)
	}
	sorted := append([]int{}, lengths...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	if !reflect.DeepEqual(lengths, sorted) {
		t.Errorf("AvailableBids lengths not ascending: %v", lengths)
	}
	for i := 1; i < len(opts); i++ {
		if opts[i-1].Length == opts[i].Length && opts[i-1].Suit == Clubs && opts[i].Suit != Clubs {
			t.Errorf("Clubs must sort last at equal length: %+v before %+v", opts[i-1], opts[i])
		}
	}
}

func TestBidBeats(t *testing.T) {
	cases := []struct {
		name                 string
		l2                   int
		s2                   Suit
		l1                   int
		s1                   Suit
		want                 bool
	}{
		{"longer wins", 6, Hearts, 5, Spades, true},
		{"shorter loses", 5, Hearts, 6, Spades, false},
		{"equal non-clubs loses", 6, Hearts, 6, Spades, false},
		{"equal clubs over non-clubs wins", 6, Clubs, 6, Spades, true},
		{"equal clubs over clubs loses", 6, Clubs, 6, Clubs, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := BidBeats(c.l2, c.s2, c.l1, c.s1); got != c.want {
				t.Errorf("BidBeats(%d,%v,%d,%v) = %v, want %v", c.l2, c.s2, c.l1, c.s1, got, c.want)
			}
		})
	}
}
