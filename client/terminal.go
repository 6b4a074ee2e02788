package client

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/luca-patrignani/holdem-server/holdem"
)

// Terminal is the pterm-backed UI used by the real client binary.
type Terminal struct{}

func (Terminal) Credentials() (string, string, error) {
	username, err := pterm.DefaultInteractiveTextInput.
		WithDefaultText("Enter your username").Show()
	if err != nil {
		return "", "", err
	}
	pterm.Println()
	password, err := pterm.DefaultInteractiveTextInput.
		WithMask("*").WithDefaultText("Enter your password").Show()
	if err != nil {
		return "", "", err
	}
	pterm.Println()
	return strings.TrimSpace(username), password, nil
}

func (Terminal) ShowMessage(body string) {
	if body != "" {
		pterm.Info.Println(body)
	}
}

func (Terminal) RenderTable(snap holdem.Snapshot) {
	var seats []pterm.Panel
	for i, p := range snap.Players {
		seats = append(seats, pterm.Panel{Data: seatBox(snap, i, p)})
	}
	panels := pterm.Panels{seats, {tableBox(snap)}}
	if len(seats) == holdem.NumPlayers {
		panels = pterm.Panels{seats[:3], {tableBox(snap)}, seats[3:]}
	}
	pterm.DefaultPanel.WithPanels(panels).Render()
	for _, line := range showdownLines(snap) {
		pterm.Success.Println(line)
	}
}

func (Terminal) Move(snap holdem.Snapshot, prompt string) (string, int, error) {
	if prompt != "" {
		pterm.Info.Println(prompt)
	}
	options := []string{
		string(holdem.ActionFold),
		string(holdem.ActionCheck),
		string(holdem.ActionCall),
		string(holdem.ActionBet),
		string(holdem.ActionAllIn),
	}
	action, err := pterm.DefaultInteractiveSelect.
		WithOptions(options).Show("Choose your action")
	if err != nil {
		return "", 0, err
	}
	amount := 0
	if action == string(holdem.ActionBet) {
		raw, err := pterm.DefaultInteractiveTextInput.
			WithDefaultText(fmt.Sprintf("Amount (current bet %d)", snap.CurrentBet())).Show()
		if err != nil {
			return "", 0, err
		}
		amount, err = strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			pterm.Warning.Println("Not a number, checking instead")
			return string(holdem.ActionCheck), 0, nil
		}
	}
	return action, amount, nil
}

func (Terminal) Requeue() (bool, error) {
	return pterm.DefaultInteractiveConfirm.Show("Play another match?")
}

func seatBox(snap holdem.Snapshot, seat int, p holdem.PlayerView) string {
	title := p.Username
	if seat == snap.Viewer {
		title = pterm.LightCyan(title + " (you)")
	}
	if seat == snap.Current && !snap.HandOver && !snap.GameOver {
		title = pterm.LightYellow("> ") + title
	}

	hand := holdem.FaceDown + " " + holdem.FaceDown
	if len(p.Hand) == holdem.HandSize {
		hand = p.Hand[0].String() + " " + p.Hand[1].String()
	}
	body := pterm.Sprintf("%s\nchips %d  bet %d\n%s", hand, p.Chips, p.TurnBet, string(p.State))

	return pterm.DefaultBox.
		WithHorizontalPadding(2).
		WithTitle(title).WithTitleTopCenter().
		Sprint(body)
}

func tableBox(snap holdem.Snapshot) pterm.Panel {
	community := make([]string, 0, holdem.CommunitySize)
	for _, c := range snap.Community {
		community = append(community, c.String())
	}
	for len(community) < holdem.CommunitySize {
		community = append(community, holdem.FaceDown)
	}
	body := pterm.Sprintf("%s\npot %d\nblinds %d/%d  hand %d",
		strings.Join(community, " "), snap.Pot, snap.SmallBlind, snap.BigBlind, snap.HandsPlayed)
	box := pterm.DefaultBox.
		WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1).
		WithTitle(pterm.LightGreen("|TABLE|")).WithTitleTopCenter().
		Sprint(body)
	return pterm.Panel{Data: box}
}

func showdownLines(snap holdem.Snapshot) []string {
	if len(snap.Winners) == 0 {
		return nil
	}
	won := make(map[string]bool, len(snap.Winners))
	for _, w := range snap.Winners {
		won[w] = true
	}

	var lines []string
	if snap.GameOver {
		lines = append(lines, "Game over after "+strconv.Itoa(snap.HandsPlayed)+" hands")
		for _, w := range snap.Winners {
			lines = append(lines, pterm.LightCyan(w)+" wins the game")
		}
		return lines
	}
	for i, p := range snap.Players {
		if !won[p.Username] {
			continue
		}
		line := pterm.LightCyan(p.Username) + " takes the pot"
		if i < len(snap.HandSummaries) && snap.HandSummaries[i] != "" {
			line += " with " + snap.HandSummaries[i]
		}
		lines = append(lines, line)
	}
	return lines
}
