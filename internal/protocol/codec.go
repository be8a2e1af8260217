package protocol

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Wire tokens.
const (
	TagLogin   = "LOGIN:"
	TagAnswer  = "RESPOSTA:"
	TagRestart = "REINICIAR:"

	MatchStartedToken = "JOGO_INICIADO"
	QuestionTag       = "PERGUNTA:"
	NoWinner          = "Ninguem"
	ExhaustedReason   = "Todas as perguntas foram usadas."
)

// Decode never fails: anything it cannot make sense of is Unrecognized.
func Decode(payload []byte) Inbound {
	if !utf8.Valid(payload) {
		return Unrecognized{}
	}
	msg := strings.TrimSpace(string(payload))

	switch {
	case strings.HasPrefix(msg, TagLogin):
		name := norm.NFC.String(strings.TrimSpace(strings.TrimPrefix(msg, TagLogin)))
		if name == "" {
			return Unrecognized{Raw: msg}
		}
		return Join{Name: name}

	case strings.HasPrefix(msg, TagAnswer):
		label, ok := lastRune(strings.TrimPrefix(msg, TagAnswer))
		if !ok {
			return Unrecognized{Raw: msg}
		}
		return Answer{Label: unicode.ToUpper(label)}

	case strings.HasPrefix(msg, TagRestart):
		vote, ok := lastRune(strings.TrimPrefix(msg, TagRestart))
		if !ok {
			return Unrecognized{Raw: msg}
		}
		switch unicode.ToUpper(vote) {
		case 'S':
			return RestartVote{Yes: true}
		case 'N':
			return RestartVote{Yes: false}
		}
		return Unrecognized{Raw: msg}
	}

	return Unrecognized{Raw: msg}
}

func lastRune(body string) (rune, bool) {
	if body == "" {
		return 0, false
	}
	r, _ := utf8.DecodeLastRuneInString(body)
	return r, true
}

// Encode renders an outbound message in its wire form.
func Encode(m Outbound) []byte {
	switch msg := m.(type) {
	case LobbyStatus:
		return fmt.Appendf(nil, "BEM-VINDO! Aguardando oponente... (Jogadores: %d/2)", msg.Joined)
	case MatchStarted:
		return []byte(MatchStartedToken)
	case QuestionPrompt:
		return fmt.Appendf(nil, "%s%s\n%s", QuestionTag, msg.Prompt, msg.Options)
	case AnsweredWrong:
		return []byte("VOCE ERROU! Aguardando adversario...")
	case OpponentMissed:
		return fmt.Appendf(nil, "O ADVERSARIO ERROU! Sua vez de tentar (+%d pts)...", msg.Bonus)
	case Scoreboard:
		winner := msg.Winner
		if winner == "" {
			winner = NoWinner
		}
		return fmt.Appendf(nil, "PLACAR: %s=%d | %s=%d\nResultado da rodada: Vencedor: %s (+%d)",
			msg.Players[0].Name, msg.Players[0].Score,
			msg.Players[1].Name, msg.Players[1].Score,
			winner, msg.Points)
	case GameOverWinner:
		return fmt.Appendf(nil, "FIM DE JOGO! VENCEDOR: %s com %d pontos.", msg.Name, msg.Score)
	case GameOverExhausted:
		return fmt.Appendf(nil, "FIM DE JOGO: %s", msg.Reason)
	case RestartInvite:
		return []byte("DESEJA JOGAR NOVAMENTE? (S/N)")
	default:
		panic(fmt.Sprintf("protocol: unknown outbound message %T", m))
	}
}
