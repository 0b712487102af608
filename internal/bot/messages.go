package bot

import (
	"fmt"
	"strings"

	"mafia-bot/internal/game"
)

const welcomeText = `🎭 마피아 게임 봇입니다!

그룹 채팅에 초대한 뒤 /open 으로 참가자를 모집하세요.
밤 능력은 봇과의 개인 채팅으로 진행되니, 참가자 모두 봇에게 먼저 /start 를 보내야 합니다.

/help 로 전체 명령어를 확인할 수 있습니다.`

const helpText = `📖 명령어 목록

게임 진행:
/open — 참가자 모집을 시작합니다
/join — 게임에 참가합니다
/leave — 참가를 취소합니다
/players — 참가자 목록을 확인합니다
/game — 모집을 마치고 즉시 시작합니다
/night — 개인 채팅: 밤 행동 선택지를 다시 받습니다 / 그룹: 현재 단계를 강제로 넘깁니다
/stop — 게임을 중단합니다
/status — 게임 상태를 확인합니다

설정:
/settings — 게임 설정을 변경합니다
/setmafiachat — 현재 채팅을 마피아 채팅방으로 등록합니다
/setloverschat — 현재 채팅을 연인 채팅방으로 등록합니다

기타:
/menu — 게임 안내 메뉴를 엽니다
/lastwill <내용> — 유언을 남깁니다 (개인 채팅)`

const rulesText = `📜 게임 규칙

1. 게임은 밤 → 낮 → 투표를 반복합니다.
2. 밤에는 능력자들이 개인 채팅에서 행동을 선택합니다.
3. 낮에는 밤의 결과를 두고 토론합니다.
4. 투표에서 최다 득표자가 처형됩니다. 동률이면 아무도 처형되지 않습니다.
5. 마피아 수가 시민팀 수 이상이 되면 마피아팀이 승리합니다.
6. 마피아가 모두 제거되면 시민팀이 승리합니다.
7. 중립 직업은 각자의 승리 조건을 따릅니다.

최소 %d명부터 시작할 수 있습니다.`

const joinWhisperText = "✅ 게임에 참가했습니다. 역할 카드와 밤 능력은 이 채팅으로 전송됩니다."

const dmWarningText = "⚠️ %s님이 봇과의 개인 채팅을 시작하지 않았습니다. 역할을 받으려면 봇에게 먼저 /start 를 보내세요."

// snapshotStatus renders a status message from the cached snapshot when
// no live manager exists for the chat.
func snapshotStatus(snap *game.Snapshot) string {
	var text strings.Builder
	text.WriteString("📋 게임 상태 (복구된 기록)\n\n")
	text.WriteString(fmt.Sprintf("단계: %s\n", game.Phase(snap.Phase).Display()))
	if snap.Started {
		text.WriteString(fmt.Sprintf("일차: %d일째\n", snap.DayCount))
	}

	alive := 0
	for _, p := range snap.Players {
		if p.Alive {
			alive++
		}
	}
	text.WriteString(fmt.Sprintf("참가자: %d명 (생존 %d명)\n", len(snap.Players), alive))
	return text.String()
}

// rolesOverview renders the rulebook for one team.
func rolesOverview(team game.Team) string {
	var text strings.Builder
	text.WriteString(fmt.Sprintf("🎭 %s 직업 소개\n", team))

	for _, name := range game.RolesByTeam(team) {
		text.WriteString("\n")
		text.WriteString(game.RoleDescription(name))
		text.WriteString("\n")
	}
	return text.String()
}

// killModeLabel renders the mafia kill mode for the settings menu.
func killModeLabel(mode string) string {
	if mode == game.KillModeIndividual {
		return "개인 (먼저 지목한 대상)"
	}
	return "팀 (마지막 지목한 대상)"
}

// onOff renders a toggle for the settings menu.
func onOff(enabled bool) string {
	if enabled {
		return "켜짐"
	}
	return "꺼짐"
}

// settingsOverview renders the current settings.
func settingsOverview(s *game.Settings) string {
	var text strings.Builder
	text.WriteString("⚙️ 게임 설정\n\n")
	text.WriteString(fmt.Sprintf("⏱ 모집 시간: %d초\n", s.OpenDuration))
	text.WriteString(fmt.Sprintf("🌙 밤 시간: %d초\n", s.NightDuration))
	text.WriteString(fmt.Sprintf("☀️ 낮 시간: %d초\n", s.DayDuration))
	text.WriteString(fmt.Sprintf("🗳 투표 시간: %d초\n", s.VoteDuration))
	text.WriteString(fmt.Sprintf("🔫 마피아 공격 방식: %s\n", killModeLabel(s.MafiaKillMode)))
	text.WriteString(fmt.Sprintf("🎭 서브 직업 시스템: %s\n", onOff(s.SubRoleEnabled)))

	text.WriteString("\n직업 구성:\n")
	for _, team := range []game.Team{game.TeamMafia, game.TeamCitizen, game.TeamNeutral} {
		for _, name := range game.RolesByTeam(team) {
			mark := "✅"
			if !s.EnabledRoles[name] {
				mark = "🚫"
			}
			text.WriteString(fmt.Sprintf("%s %s × %d\n", mark, name, s.RoleCounts[name]))
		}
	}
	return text.String()
}
