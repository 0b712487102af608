package game

import (
	"strings"
	"testing"
)

func TestKillProtectedSurvives(t *testing.T) {
	players := testPlayers(2)
	players[1].AssignRole(NewCitizen())
	players[1].Protected = true

	messages := players[1].Kill(players, 2)

	if !players[1].Alive {
		t.Error("protected player died")
	}
	if len(messages) != 1 || !strings.Contains(messages[0], "살아남았습니다") {
		t.Errorf("unexpected messages: %v", messages)
	}
}

func TestKillBomberTakesKillerDown(t *testing.T) {
	players := testPlayers(3)
	players[1].AssignRole(NewBomber())
	players[2].AssignRole(NewMafia())
	players[3].AssignRole(NewCitizen())

	players[1].Kill(players, 2)

	if players[1].Alive {
		t.Error("bomber survived the kill")
	}
	if players[2].Alive {
		t.Error("killer survived the bomb")
	}
	if !players[3].Alive {
		t.Error("bystander died")
	}
}

func TestKillBomberIgnoresExecution(t *testing.T) {
	players := testPlayers(2)
	players[1].AssignRole(NewBomber())
	players[2].AssignRole(NewCitizen())

	// Killer ID 0 marks a lynch, not a night attack.
	players[1].Kill(players, 0)

	if !players[2].Alive {
		t.Error("execution triggered the bomb")
	}
}

func TestKillLoverChain(t *testing.T) {
	players := testPlayers(3)
	for _, p := range players {
		p.AssignRole(NewCitizen())
	}
	players[1].AddLover(2)
	players[2].AddLover(1)

	messages := players[1].Kill(players, 3)

	if players[1].Alive || players[2].Alive {
		t.Error("lover chain did not kill both partners")
	}
	if !players[3].Alive {
		t.Error("unrelated player died")
	}

	found := false
	for _, msg := range messages {
		if strings.Contains(msg, "연인의 죽음") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing lover death announcement: %v", messages)
	}
}

func TestRoleCardMentionsPsychoAndLovers(t *testing.T) {
	p := NewPlayer(1, "a", 1)
	p.AssignRole(NewDetective())
	p.Psycho = true
	p.AddLover(2)

	card := p.RoleCard()
	if !strings.Contains(card, "정신병자") {
		t.Error("role card missing psycho warning")
	}
	if !strings.Contains(card, "연인") {
		t.Error("role card missing lover warning")
	}
	if !strings.Contains(card, string(TeamCitizen)) {
		t.Error("role card missing team")
	}
}
