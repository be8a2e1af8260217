// Package protocol encodes and decodes the text datagrams exchanged with
// quiz clients.
//
// Client -> Server
//
//	LOGIN:<name>         join the lobby
//	RESPOSTA:...<label>  answer the current question; the last character is the label
//	REINICIAR:...<S|N>   restart vote; the last character is the vote
//
// Server -> Client
//
//	BEM-VINDO! Aguardando oponente... (Jogadores: n/2)
//	JOGO_INICIADO
//	PERGUNTA:<prompt>\n<choices>
//	VOCE ERROU! Aguardando adversario...
//	O ADVERSARIO ERROU! Sua vez de tentar (+n pts)...
//	PLACAR: a=1 | b=2\nResultado da rodada: Vencedor: <name|Ninguem> (+n)
//	FIM DE JOGO! VENCEDOR: <name> com <score> pontos.
//	FIM DE JOGO: <reason>
//	DESEJA JOGAR NOVAMENTE? (S/N)
package protocol

// Inbound is a decoded client datagram.
type Inbound interface{ isInbound() }

type Join struct{ Name string }

func (Join) isInbound() {}

type Answer struct{ Label rune }

func (Answer) isInbound() {}

type RestartVote struct{ Yes bool }

func (RestartVote) isInbound() {}

// Unrecognized is anything else. Every state treats it as a no-op.
type Unrecognized struct{ Raw string }

func (Unrecognized) isInbound() {}

// Outbound is a server datagram.
type Outbound interface{ isOutbound() }

// LobbyStatus acknowledges a join with the current participant count.
type LobbyStatus struct{ Joined int }

func (LobbyStatus) isOutbound() {}

type MatchStarted struct{}

func (MatchStarted) isOutbound() {}

type QuestionPrompt struct {
	Prompt  string
	Options string
}

func (QuestionPrompt) isOutbound() {}

// AnsweredWrong goes to a first responder who missed.
type AnsweredWrong struct{}

func (AnsweredWrong) isOutbound() {}

// OpponentMissed invites the other participant to try for Bonus points.
type OpponentMissed struct{ Bonus int }

func (OpponentMissed) isOutbound() {}

type ScoreLine struct {
	Name  string
	Score int
}

type Scoreboard struct {
	Players [2]ScoreLine
	Winner  string // empty when nobody scored
	Points  int
}

func (Scoreboard) isOutbound() {}

type GameOverWinner struct {
	Name  string
	Score int
}

func (GameOverWinner) isOutbound() {}

type GameOverExhausted struct{ Reason string }

func (GameOverExhausted) isOutbound() {}

type RestartInvite struct{}

func (RestartInvite) isOutbound() {}
