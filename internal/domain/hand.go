package domain

// allSuits lists the four candidate trump suits in a fixed order, used
// wherever a deterministic iteration order matters (e.g. AvailableBids).
var allSuits = []Suit{Hearts, Diamonds, Clubs, Spades}

// TrumpCounts returns, for each candidate trump suit, how many cards in
// hand would count as trump if that suit were declared: the permanent
// trumps plus hand's cards of that suit.
func TrumpCounts(hand []Card) map[Suit]int {
	counts := make(map[Suit]int, 4)
	for _, s := range allSuits {
		counts[s] = 0
	}
	for _, c := range hand {
		if IsPermanentTrump(c) {
			for _, s := range allSuits {
				counts[s]++
			}
			continue
		}
		counts[c.Suit]++
	}
	return counts
}

// BidOption is one legal bid a hand can make against the current highest.
type BidOption struct {
	Length      int
	Suit        Suit
	IsClubMatch bool // true when this is the equal-length clubs-beats-non-clubs case
}

// AvailableBids enumerates the legal bids open to hand's holder against
// the current highest bid (nil when no bid has been made yet). Results
// are sorted ascending by length with clubs ordered last at equal length.
func AvailableBids(hand []Card, currentLength *int, currentSuit *Suit) []BidOption {
	counts := TrumpCounts(hand)

	minLength := 5
	if currentLength != nil && *currentLength+1 > minLength {
		minLength = *currentLength + 1
	}

	var options []BidOption
	for _, s := range allSuits {
		for length := minLength; length <= counts[s]; length++ {
			options = append(options, BidOption{Length: length, Suit: s})
		}
	}

	// Equal-length clubs-match: only legal when the current highest bid
	// exists, is not already clubs, and the hand holds enough trumps in
	// clubs to match its length exactly.
	if currentLength != nil && currentSuit != nil && *currentSuit != Clubs {
		if counts[Clubs] >= *currentLength {
			options = append(options, BidOption{Length: *currentLength, Suit: Clubs, IsClubMatch: true})
		}
	}

	sortBidOptions(options)
	return options
}

func sortBidOptions(options []BidOption) {
	for i := 1; i < len(options); i++ {
		for j := i; j > 0 && bidLess(options[j], options[j-1]); j-- {
			options[j], options[j-1] = options[j-1], options[j]
		}
	}
}

// bidLess orders ascending by length, with Clubs last among equal lengths.
func bidLess(a, b BidOption) bool {
	if a.Length != b.Length {
		return a.Length < b.Length
	}
	if a.Suit == Clubs && b.Suit != Clubs {
		return false
	}
	if a.Suit != Clubs && b.Suit == Clubs {
		return true
	}
	return a.Suit < b.Suit
}

// BidBeats reports whether bid (length2, suit2) strictly beats
// (length1, suit1) per the Sjavs bidding rule: a longer bid always wins;
// equal length is won only by Clubs over a non-Clubs suit; equal length
// with both Clubs, or a shorter bid, never wins.
func BidBeats(length2 int, suit2 Suit, length1 int, suit1 Suit) bool {
	if length2 > length1 {
		return true
	}
	if length2 == length1 && suit2 == Clubs && suit1 != Clubs {
		return true
	}
	return false
}
