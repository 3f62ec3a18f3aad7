package announcer

import (
	"context"
	"fmt"
	"time"

	"leetstreak/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds announcer configuration
type Config struct {
	Token     string
	ChannelID string
}

// Enabled reports whether both the bot token and the target channel are set
func (c Config) Enabled() bool {
	return c.Token != "" && c.ChannelID != ""
}

// Sender is the part of a Discord session used to post messages
type Sender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Announcer posts tournament milestones to a Discord channel
type Announcer struct {
	channelID string
	sender    Sender
	session   *discordgo.Session
}

// New creates a REST-only Discord session for cfg. No gateway connection is opened.
func New(cfg Config) (*Announcer, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("discord announcer requires a token and a channel id")
	}

	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}

	a := NewWithSender(cfg.ChannelID, dg)
	a.session = dg
	return a, nil
}

// NewWithSender creates an announcer that posts through sender
func NewWithSender(channelID string, sender Sender) *Announcer {
	return &Announcer{
		channelID: channelID,
		sender:    sender,
	}
}

// Subscribe registers the announcer's handlers on bus
func (a *Announcer) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.EventTypeStreakEvaluated, a.handleStreakEvaluated)
	bus.Subscribe(events.EventTypeTournamentCreated, a.handleTournamentCreated)
	log.WithField("channelID", a.channelID).Info("Discord announcements enabled")
}

// Close releases the underlying session, if any
func (a *Announcer) Close() error {
	if a.session == nil {
		return nil
	}
	return a.session.Close()
}

func (a *Announcer) handleStreakEvaluated(_ context.Context, event events.Event) {
	e, ok := event.(events.StreakEvaluatedEvent)
	if !ok {
		return
	}
	a.send(StreakEmbed(e), log.Fields{"tournamentID": e.TournamentID, "date": e.Date})
}

func (a *Announcer) handleTournamentCreated(_ context.Context, event events.Event) {
	e, ok := event.(events.TournamentCreatedEvent)
	if !ok {
		return
	}
	a.send(TournamentCreatedEmbed(e), log.Fields{"tournamentID": e.TournamentID})
}

func (a *Announcer) send(embed *discordgo.MessageEmbed, fields log.Fields) {
	if _, err := a.sender.ChannelMessageSendEmbed(a.channelID, embed); err != nil {
		log.WithFields(fields).WithError(err).Error("Failed to post Discord announcement")
	}
}

// StreakEmbed builds the message for a daily streak evaluation
func StreakEmbed(e events.StreakEvaluatedEvent) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Streak", Value: FormatStreak(e.NewStreak), Inline: true},
			{Name: "Day", Value: e.Date, Inline: true},
		},
	}

	if e.Extended() {
		embed.Title = fmt.Sprintf("🔥 %s kept the streak alive", e.TournamentName)
		embed.Color = ColorSuccess
	} else {
		embed.Title = fmt.Sprintf("💧 %s lost the streak", e.TournamentName)
		embed.Description = fmt.Sprintf("Previous streak: %s", FormatStreak(e.OldStreak))
		embed.Color = ColorWarning
	}

	if e.SavesUsed > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Streak saves used",
			Value:  FormatCount(int64(e.SavesUsed)),
			Inline: true,
		})
	}
	return embed
}

// TournamentCreatedEmbed builds the message for a new tournament
func TournamentCreatedEmbed(e events.TournamentCreatedEvent) *discordgo.MessageEmbed {
	ends := e.EndTime
	if parsed, err := time.Parse(time.RFC3339, e.EndTime); err == nil {
		ends = FormatDiscordTimestamp(parsed, "f")
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🏁 New tournament: %s", e.TournamentName),
		Description: "Solve at least one problem every day to keep the group streak going.",
		Color:       ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Ends", Value: ends, Inline: true},
		},
	}
}
