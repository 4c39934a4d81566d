// Terminal chat front end for Deo AI. Keeps one session for the process
// lifetime; when the default credential runs out of quota it asks once for a
// replacement key, mirroring the hosted UI flow.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/deo-labs/deoai/src/agent"
	_ "github.com/deo-labs/deoai/src/ai/providers"
	shared "github.com/deo-labs/deoai/src/config"
	"github.com/deo-labs/deoai/src/logging"
)

var (
	providerFlag  = flag.String("provider", "", "AI provider override (openai|claude)")
	modelFlag     = flag.String("model", "", "Model name override")
	proposalsFlag = flag.Int("proposals", 25, "Default number of recent proposals to analyze")
	timeoutFlag   = flag.Duration("timeout", 10*time.Minute, "Per-turn timeout")
)

const banner = `Deo AI: ask me anything about crypto, blockchain, or web3.
To optimize a DAO proposal, provide:
  1. the name of the DAO you're submitting the proposal to,
  2. the proposal text (any language; the optimized version comes back in English),
  3. the number of recent proposals to analyze (lower it if you hit token limits).
Type 'exit' to quit.`

func main() {
	log.SetFlags(0)
	flag.Parse()

	aiCfg := shared.LoadAIFromEnv()
	if *providerFlag != "" {
		aiCfg.Provider = *providerFlag
	}
	if *modelFlag != "" {
		aiCfg.Model = *modelFlag
	}

	factory := agent.NewDefaultFactory(aiCfg, shared.SnapshotEndpoint(), *proposalsFlag)
	ag, err := factory("")
	if err != nil {
		log.Fatalf("build agent: %v", err)
	}

	sess := agent.NewSession()
	in := bufio.NewScanner(os.Stdin)
	in.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	fmt.Println(banner)
	for {
		fmt.Print("> ")
		if !in.Scan() {
			return
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return
		}

		reply, err := respond(ag, sess, line)
		if err != nil && logging.IsQuotaExhausted(err) {
			fmt.Println("Monthly API credits exhausted. Enter your own OpenAI API key to continue:")
			fmt.Print("api key> ")
			if !in.Scan() {
				return
			}
			key := strings.TrimSpace(in.Text())
			if key == "" {
				continue
			}
			if ag, err = factory(key); err != nil {
				log.Printf("rebuild agent: %v", err)
				continue
			}
			reply, err = respond(ag, sess, line)
		}
		if err != nil {
			log.Printf("error: %v", err)
			continue
		}
		fmt.Println(reply)
	}
}

func respond(ag *agent.Agent, sess *agent.Session, line string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()
	return ag.Respond(ctx, sess, line)
}
