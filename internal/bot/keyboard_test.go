package bot

import (
	"fmt"
	"testing"

	"mafia-bot/internal/game"
)

func testAlive(n int) []*game.Player {
	players := make([]*game.Player, 0, n)
	for i := 1; i <= n; i++ {
		players = append(players, game.NewPlayer(int64(i), fmt.Sprintf("p%d", i), int64(i)))
	}
	return players
}

func TestVoteKeyboardWrapsTwoPerRow(t *testing.T) {
	b := &Bot{}
	markup := b.voteKeyboard(testAlive(5))

	if len(markup.InlineKeyboard) != 3 {
		t.Fatalf("row count = %d, want 3", len(markup.InlineKeyboard))
	}
	if got := markup.InlineKeyboard[0][0].CallbackData; got == nil || *got != "vote_1" {
		t.Errorf("first button data = %v, want vote_1", got)
	}
	if len(markup.InlineKeyboard[2]) != 1 {
		t.Errorf("last row length = %d, want 1", len(markup.InlineKeyboard[2]))
	}
}

func TestNightActionKeyboardMafiaModeRow(t *testing.T) {
	b := &Bot{}

	plain := game.NewPlayer(1, "p1", 1)
	plain.AssignRole(game.NewDetective())
	markup := b.nightActionKeyboard(plain, testAlive(2))
	if len(markup.InlineKeyboard) != 2 {
		t.Errorf("plain row count = %d, want one per target", len(markup.InlineKeyboard))
	}

	mafia := game.NewMafia()
	mafia.SetSubRole(game.RoleReporter)
	covered := game.NewPlayer(2, "p2", 2)
	covered.AssignRole(mafia)
	markup = b.nightActionKeyboard(covered, testAlive(2))
	if len(markup.InlineKeyboard) != 3 {
		t.Fatalf("mafia row count = %d, want mode row plus targets", len(markup.InlineKeyboard))
	}
	if got := markup.InlineKeyboard[0][0].CallbackData; got == nil || *got != "mafia_kill" {
		t.Errorf("mode button data = %v, want mafia_kill", got)
	}
}

func TestMenuKeyboardCoversAllActions(t *testing.T) {
	b := &Bot{}
	markup := b.menuKeyboard()

	data := map[string]bool{}
	for _, row := range markup.InlineKeyboard {
		for _, button := range row {
			if button.CallbackData != nil {
				data[*button.CallbackData] = true
			}
		}
	}

	want := []string{
		"menu_join", "menu_leave", "menu_open", "menu_game",
		"menu_stop", "menu_status", "menu_rules", "menu_roles",
		"menu_settings", "menu_addbots",
	}
	for _, d := range want {
		if !data[d] {
			t.Errorf("menu keyboard missing %s", d)
		}
	}
}

func TestSettingsKeyboardHasResetAndBack(t *testing.T) {
	b := &Bot{}
	markup := b.settingsKeyboard(game.DefaultSettings())

	data := map[string]bool{}
	for _, row := range markup.InlineKeyboard {
		for _, button := range row {
			if button.CallbackData != nil {
				data[*button.CallbackData] = true
			}
		}
	}

	if !data["settings_reset"] {
		t.Error("settings keyboard missing settings_reset")
	}
	if !data["menu_back"] {
		t.Error("settings keyboard missing menu_back")
	}
}

func TestTeamKeyboardHasBackRow(t *testing.T) {
	b := &Bot{}
	markup := b.teamKeyboard()

	last := markup.InlineKeyboard[len(markup.InlineKeyboard)-1]
	if got := last[0].CallbackData; got == nil || *got != "menu_back" {
		t.Errorf("last row data = %v, want menu_back", got)
	}
}

func TestRoleToggleKeyboardCoversAllRoles(t *testing.T) {
	b := &Bot{}
	markup := b.roleToggleKeyboard(game.DefaultSettings())

	buttons := 0
	for _, row := range markup.InlineKeyboard {
		buttons += len(row)
	}

	total := 0
	for _, team := range []game.Team{game.TeamMafia, game.TeamCitizen, game.TeamNeutral} {
		total += len(game.RolesByTeam(team))
	}
	// One button per role plus the back button.
	if buttons != total+1 {
		t.Errorf("button count = %d, want %d", buttons, total+1)
	}
}
