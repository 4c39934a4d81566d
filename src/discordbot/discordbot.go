// Deo AI Discord front end: relays channel messages to the conversational
// agent, one session per channel.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/deo-labs/deoai/src/agent"
	_ "github.com/deo-labs/deoai/src/ai/providers"
	shared "github.com/deo-labs/deoai/src/config"
	"github.com/deo-labs/deoai/src/logging"
)

const (
	askCommand   = "!ask "
	resetCommand = "!reset"
	turnTimeout  = 10 * time.Minute
	// Discord rejects messages above this length; long replies are chunked.
	maxMessageLen = 2000
)

type DiscordBot struct {
	session *discordgo.Session
	agent   *agent.Agent

	mu       sync.Mutex
	sessions map[string]*agent.Session // channelID -> session
}

func NewDiscordBot(token string, ag *agent.Agent) (*DiscordBot, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	bot := &DiscordBot{
		session:  dg,
		agent:    ag,
		sessions: make(map[string]*agent.Session),
	}

	dg.AddHandler(bot.handleReady)
	dg.AddHandler(bot.handleMessageCreate)
	dg.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	return bot, nil
}

func (b *DiscordBot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("Deo AI bot logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
}

func (b *DiscordBot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return
	}

	content := strings.TrimSpace(m.Content)
	switch {
	case content == resetCommand:
		b.resetSession(m.ChannelID)
		s.ChannelMessageSend(m.ChannelID, "Conversation reset.")
	case strings.HasPrefix(content, askCommand):
		b.handleAsk(s, m, strings.TrimSpace(strings.TrimPrefix(content, askCommand)))
	}
}

func (b *DiscordBot) handleAsk(s *discordgo.Session, m *discordgo.MessageCreate, question string) {
	if question == "" {
		s.ChannelMessageSend(m.ChannelID, "Please provide a question after !ask.")
		return
	}

	s.ChannelTyping(m.ChannelID)

	ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
	defer cancel()

	reply, err := b.agent.Respond(ctx, b.channelSession(m.ChannelID), question)
	if err != nil {
		log.Printf("discordbot: channel %s: %v", m.ChannelID, err)
		if logging.IsQuotaExhausted(err) {
			s.ChannelMessageSend(m.ChannelID, "The configured API credits are exhausted. Ask the operator to rotate the key.")
			return
		}
		s.ChannelMessageSend(m.ChannelID, "Sorry, something went wrong handling that question.")
		return
	}

	for _, chunk := range chunkMessage(reply, maxMessageLen) {
		if _, err := s.ChannelMessageSend(m.ChannelID, chunk); err != nil {
			log.Printf("discordbot: send to %s: %v", m.ChannelID, err)
			return
		}
	}
}

func (b *DiscordBot) channelSession(channelID string) *agent.Session {
	b.mu.Lock()
	defer b.mu.Unlock()
	sess, ok := b.sessions[channelID]
	if !ok {
		sess = agent.NewSession()
		b.sessions[channelID] = sess
	}
	return sess
}

func (b *DiscordBot) resetSession(channelID string) {
	b.mu.Lock()
	delete(b.sessions, channelID)
	b.mu.Unlock()
}

func chunkMessage(text string, limit int) []string {
	if text == "" {
		return nil
	}
	var chunks []string
	for len(text) > limit {
		cut := strings.LastIndex(text[:limit], "\n")
		if cut <= 0 {
			// No newline to break on; back up so the cut does not land
			// inside a multi-byte rune.
			cut = limit
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			if cut == 0 {
				cut = limit
			}
		}
		chunks = append(chunks, text[:cut])
		text = text[cut:]
	}
	return append(chunks, text)
}

func main() {
	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		log.Fatal("DISCORD_TOKEN not set")
	}

	factory := agent.NewDefaultFactory(shared.LoadAIFromEnv(), shared.SnapshotEndpoint(), 0)
	ag, err := factory("")
	if err != nil {
		log.Fatalf("build agent: %v", err)
	}

	bot, err := NewDiscordBot(token, ag)
	if err != nil {
		log.Fatalf("create bot: %v", err)
	}
	if err := bot.session.Open(); err != nil {
		log.Fatalf("open discord session: %v", err)
	}
	defer bot.session.Close()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutting down")
}
