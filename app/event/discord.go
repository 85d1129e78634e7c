package event

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/bobylevd/cs-stats-dash/app/dashboard"
	"github.com/bobylevd/cs-stats-dash/app/library"
	"github.com/bobylevd/cs-stats-dash/app/state"
	"github.com/bobylevd/cs-stats-dash/app/steam"
)

// Discord is a handler for Discord commands.
type Discord struct {
	Token          string
	Dashboard      *dashboard.Service
	Store          state.Persister
	HandlerTimeout time.Duration
	se             *discordgo.Session
}

// Run runs the Discord handler.
// Blocking call.
func (d *Discord) Run(ctx context.Context) error {
	if d.HandlerTimeout == 0 {
		d.HandlerTimeout = 15 * time.Second
	}

	se, err := discordgo.New(fmt.Sprintf("Bot %s", d.Token))
	if err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}

	d.se = se
	d.se.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
	d.se.AddHandler(d.onMessage)

	log.Printf("[INFO] opening discord session")
	if err := d.se.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}

	<-ctx.Done()

	log.Printf("[WARN] stopping bot with reason: %v", context.Cause(ctx))
	if err := d.se.Close(); err != nil {
		return fmt.Errorf("close discord session: %w", err)
	}

	return nil
}

func (d *Discord) onMessage(s *discordgo.Session, msg *discordgo.MessageCreate) {
	if msg.Author.ID == s.State.User.ID {
		return // ignore messages from the bot
	}

	log.Printf("[DEBUG] received message from %s: %s", msg.ChannelID, msg.Content)

	msg.Content = strings.TrimSpace(msg.Content)
	if msg.Content == "" || !strings.HasPrefix(msg.Content, "!") {
		return // do nothing
	}

	command := d.command(msg.Content)
	if command == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.HandlerTimeout)
	defer cancel()

	ctx = context.WithValue(ctx, senderIDKey{}, msg.Author.ID)
	args := strings.Fields(msg.Content)[1:] // first word is the command itself

	replyTo := &discordgo.MessageReference{MessageID: msg.ID, ChannelID: msg.ChannelID}
	reply, err := command(ctx, args)
	if err != nil {
		log.Printf("[WARN] failed to execute command: %v", err)
		reply = "failed to execute command, check logs"
	}
	if _, err = s.ChannelMessageSendReply(msg.ChannelID, reply, replyTo); err != nil {
		log.Printf("[WARN] failed to send message: %v", err)
	}
}

type commandFunc func(ctx context.Context, args []string) (reply string, err error)

func (d *Discord) command(content string) commandFunc {
	name := strings.Fields(content)[0]
	switch name {
	case "!register":
		return d.register
	case "!stat":
		return d.stat
	case "!weapons":
		return d.weapons
	case "!maps":
		return d.maps
	case "!games":
		return d.games
	case "!news":
		return d.news
	case "!theme":
		return d.theme
	case "!ping":
		return d.ping
	case "!help":
		return d.help
	default:
		return nil
	}
}

func (d *Discord) register(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "usage: !register <steamid|vanity>", nil
	}

	app := state.New(ownerOf(senderID(ctx)), d.Store)
	if err := app.Load(ctx); err != nil {
		return "", fmt.Errorf("load state: %w", err)
	}

	steamID, err := d.Dashboard.Steam.ResolveIdentifier(ctx, args[0])
	if err != nil {
		if reply, ok := userError(err); ok {
			return reply, nil
		}
		return "", fmt.Errorf("resolve %q: %w", args[0], err)
	}

	if err := app.SetSteamID(ctx, steamID); err != nil {
		return "", fmt.Errorf("register player: %w", err)
	}

	return fmt.Sprintf("registered steam id %s", steamID), nil
}

func (d *Discord) stat(ctx context.Context, args []string) (string, error) {
	snap, reply, err := d.load(ctx, args)
	if snap == nil {
		return reply, err
	}
	return statReply(*snap), nil
}

func (d *Discord) weapons(ctx context.Context, args []string) (string, error) {
	snap, reply, err := d.load(ctx, args)
	if snap == nil {
		return reply, err
	}
	if snap.Insights == nil {
		return noStats(*snap), nil
	}
	return weaponsReply(snap.Insights.WeaponStats), nil
}

func (d *Discord) maps(ctx context.Context, args []string) (string, error) {
	snap, reply, err := d.load(ctx, args)
	if snap == nil {
		return reply, err
	}
	if snap.Insights == nil {
		return noStats(*snap), nil
	}
	return mapsReply(snap.Insights.MapStats), nil
}

func (d *Discord) games(ctx context.Context, args []string) (string, error) {
	target, collection := splitGamesArgs(args)

	snap, reply, err := d.load(ctx, target)
	if snap == nil {
		return reply, err
	}
	return gamesReply(snap.Games, collection), nil
}

func (d *Discord) news(ctx context.Context, _ []string) (string, error) {
	raw, err := d.Dashboard.Steam.News(ctx, steam.CS2AppID, d.Dashboard.NewsCount)
	if err != nil {
		if reply, ok := userError(err); ok {
			return reply, nil
		}
		return "", fmt.Errorf("get news: %w", err)
	}
	return newsReply(raw)
}

func (d *Discord) theme(ctx context.Context, _ []string) (string, error) {
	app := state.New(ownerOf(senderID(ctx)), d.Store)
	if err := app.Load(ctx); err != nil {
		return "", fmt.Errorf("load state: %w", err)
	}

	t, err := app.ToggleTheme(ctx)
	if err != nil {
		return "", fmt.Errorf("toggle theme: %w", err)
	}

	return fmt.Sprintf("theme set to %s", t), nil
}

func (d *Discord) ping(context.Context, []string) (string, error) { return "pong!", nil }

func (d *Discord) help(context.Context, []string) (reply string, err error) {
	return `
!register <steamid|vanity> - remember your steam account
!stat [steamid|vanity|@user] - CS2 performance summary and suggestions
!weapons [steamid|vanity|@user] - kills and accuracy per weapon
!maps [steamid|vanity|@user] - rounds and win rate per map
!games [steamid|vanity|@user] [all|unplayed|under2h|recent|favorites] - owned games
!news - latest CS2 news
!theme - switch dashboard theme between dark and light
!ping - pong!
!help - this message
	`, nil
}

// load fills the dashboard state for the target of a command. The target
// is the sender's registered account, a mentioned user's registered
// account, or an explicit identifier, which is not persisted. A non-nil
// snapshot is returned on success, otherwise the reply to send.
func (d *Discord) load(ctx context.Context, args []string) (*state.Snapshot, string, error) {
	owner, ident := senderID(ctx), ""
	if len(args) > 0 {
		if ref := parseDiscordRef(args[0]); ref != args[0] {
			owner = ref
		} else {
			ident = args[0]
		}
	}

	app := state.New(ownerOf(owner), d.Store)
	if ident != "" {
		app = state.New(ownerOf(owner), nil)
	} else if err := app.Load(ctx); err != nil {
		return nil, "", fmt.Errorf("load state: %w", err)
	}

	if ident == "" && app.SteamID() == "" {
		return nil, "no steam account registered, use !register <steamid|vanity> first", nil
	}

	if err := d.Dashboard.Load(ctx, app, ident); err != nil {
		if reply, ok := userError(err); ok {
			return nil, reply, nil
		}
		return nil, "", fmt.Errorf("load dashboard: %w", err)
	}

	snap := app.Snapshot()
	return &snap, "", nil
}

// userError returns the reply for errors caused by the input or by the
// player's privacy settings.
func userError(err error) (string, bool) {
	switch steam.KindOf(err) {
	case steam.KindValidation, steam.KindNotFound:
		return err.Error(), true
	case steam.KindConfig:
		return "steam access is not configured", true
	default:
		return "", false
	}
}

func splitGamesArgs(args []string) (target []string, collection string) {
	collection = library.CollectionAll
	for _, arg := range args {
		if _, err := library.Select(nil, arg); err == nil {
			collection = arg
			continue
		}
		target = append(target, arg)
	}
	return target, collection
}

func ownerOf(discordID string) string { return "discord:" + discordID }

func parseDiscordRef(ref string) string {
	for _, prefix := range []string{"<@!", "<@"} {
		if strings.HasPrefix(ref, prefix) && strings.HasSuffix(ref, ">") {
			return ref[len(prefix) : len(ref)-1]
		}
	}
	return ref
}

type senderIDKey struct{}

func senderID(ctx context.Context) string {
	if v := ctx.Value(senderIDKey{}); v != nil {
		return v.(string)
	}
	return ""
}
