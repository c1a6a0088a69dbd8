package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
)

type sent struct {
	channel string
	title   string
}

type fakeSession struct {
	dmErr   error
	sendErr map[string]error
	sent    []sent
}

func (f *fakeSession) UserChannelCreate(id string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if f.dmErr != nil {
		return nil, f.dmErr
	}
	return &discordgo.Channel{ID: "dm-" + id}, nil
}

func (f *fakeSession) ChannelMessageSendEmbed(ch string, e *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if err := f.sendErr[ch]; err != nil {
		return nil, err
	}
	f.sent = append(f.sent, sent{ch, e.Title})
	return &discordgo.Message{}, nil
}

func TestDMMirrorsSuccess(t *testing.T) {
	s := &fakeSession{}
	n := New(s, "log", "dmlog")

	res := n.DM(context.Background(), "42", &discordgo.MessageEmbed{Title: "You have been warned"})
	if !res.IsOK() {
		t.Fatalf("DM() = %v, want ok", res)
	}
	if len(s.sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(s.sent))
	}
	if s.sent[0].channel != "dm-42" || s.sent[1].channel != "dmlog" || s.sent[1].title != "DM Sent" {
		t.Errorf("sent = %+v", s.sent)
	}
}

func TestDMFailureIsReported(t *testing.T) {
	s := &fakeSession{sendErr: map[string]error{"dm-42": errors.New("closed")}}
	n := New(s, "log", "dmlog")

	res := n.DM(context.Background(), "42", &discordgo.MessageEmbed{Title: "x"})
	if !res.IsFailed() || res.Reason != "closed" {
		t.Errorf("DM() = %v, want failed: closed", res)
	}
	if len(s.sent) != 1 || s.sent[0].title != "DM Failed" {
		t.Errorf("sent = %+v, want one DM Failed mirror", s.sent)
	}
}

func TestDMWithoutUserIsSkipped(t *testing.T) {
	s := &fakeSession{}
	res := New(s, "", "").DM(context.Background(), "", nil)
	if !res.IsSkipped() {
		t.Errorf("DM(\"\") = %v, want skipped", res)
	}
	if len(s.sent) != 0 {
		t.Errorf("sent = %+v, want nothing", s.sent)
	}
}

func TestLogWithoutChannelIsSkipped(t *testing.T) {
	s := &fakeSession{}
	if res := New(s, "", "").Log(context.Background(), &discordgo.MessageEmbed{}); !res.IsSkipped() {
		t.Errorf("Log() = %v, want skipped", res)
	}
	if res := New(s, "log", "").Log(context.Background(), &discordgo.MessageEmbed{Title: "t"}); !res.IsOK() {
		t.Errorf("Log() = %v, want ok", res)
	}
}

func TestDMErrorDisabled(t *testing.T) {
	err := &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeCannotSendMessagesToThisUser}}
	if got := dmError(err); got != "user has DMs disabled" {
		t.Errorf("dmError() = %q", got)
	}
}
