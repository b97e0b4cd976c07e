package score

import (
	"testing"

	"git.lost.host/meutraa/arrows/internal/game"
)

func TestBonusMaximumAtTarget(t *testing.T) {
	if Bonus(0) != maxPoints {
		t.Fatal("expected", maxPoints, "got", Bonus(0))
	}
}

func TestBonusMonotonic(t *testing.T) {
	last := Bonus(0)
	for d := 0.0; d <= game.Threshold; d += 0.01 {
		b := Bonus(d)
		if b > last || b < 0 {
			t.Log("distance", d)
			t.Log("bonus   ", b)
			t.Log("previous", last)
			t.Fatal("bonus must not increase with distance")
		}
		if Bonus(-d) != b {
			t.Fatal("bonus must be symmetric around the target at", d)
		}
		last = b
	}
	if Bonus(game.Threshold) != minPoints {
		t.Fatal("expected the floor at the window edge, got", Bonus(game.Threshold))
	}
}

var result int

func BenchmarkBonus(b *testing.B) {
	total := 0
	for n := 0; n < b.N; n++ {
		total += Bonus(float64(n%40) - 20)
	}
	result = total
}
