package usecase

import (
	"testing"

	"github.com/nketchum/sidebet/internal/domain/bet"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name       string
		betType    string
		selection  string
		wantErr    bool
		direction  direction
		playerName string
	}{
		{name: "moneyline passes through", betType: bet.TypeMoneyline, selection: "Kansas City Chiefs"},
		{name: "spread passes through", betType: bet.TypeSpread, selection: "Eagles -7"},
		{name: "total over", betType: bet.TypeOverUnder, selection: "over 45.5", direction: directionOver},
		{name: "total under with noise", betType: bet.TypeOverUnder, selection: "total goes UNDER 41", direction: directionUnder},
		{name: "total without direction", betType: bet.TypeOverUnder, selection: "45.5 combined", wantErr: true},
		{
			name:       "player prop extracts name",
			betType:    bet.TypePlayerProp,
			selection:  "Travis Kelce over 65.5 receiving yards",
			direction:  directionOver,
			playerName: "Travis Kelce",
		},
		{
			name:       "player prop trailing punctuation",
			betType:    bet.TypePlayerProp,
			selection:  "Saquon Barkley under: 95.5 rushing yards",
			direction:  directionUnder,
			playerName: "Saquon Barkley",
		},
		{name: "player prop without direction", betType: bet.TypePlayerProp, selection: "Kelce 65.5 yards", wantErr: true},
		{name: "empty selection", betType: bet.TypeMoneyline, selection: "   ", wantErr: true},
		{name: "unsupported type", betType: "teaser", selection: "anything", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSelection(tt.betType, tt.selection)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for selection %q", tt.selection)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse selection: %v", err)
			}
			if got.direction != tt.direction {
				t.Fatalf("unexpected direction: got %q want %q", got.direction, tt.direction)
			}
			if got.playerName != tt.playerName {
				t.Fatalf("unexpected player name: got %q want %q", got.playerName, tt.playerName)
			}
		})
	}
}

func TestTeamSide(t *testing.T) {
	const (
		home = "Philadelphia Eagles"
		away = "Dallas Cowboys"
	)

	tests := []struct {
		name      string
		selection string
		wantSide  string
		wantOK    bool
	}{
		{name: "full home name", selection: "Philadelphia Eagles -7", wantSide: sideHome, wantOK: true},
		{name: "mascot only", selection: "cowboys +7", wantSide: sideAway, wantOK: true},
		{name: "case insensitive", selection: "EAGLES ML", wantSide: sideHome, wantOK: true},
		{name: "both sides ambiguous", selection: "Eagles over Cowboys"},
		{name: "neither side", selection: "Giants -3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			side, ok := teamSide(tt.selection, home, away)
			if ok != tt.wantOK {
				t.Fatalf("unexpected ok: got %v want %v", ok, tt.wantOK)
			}
			if side != tt.wantSide {
				t.Fatalf("unexpected side: got %q want %q", side, tt.wantSide)
			}
		})
	}
}
