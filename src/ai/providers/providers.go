package providers

import (
	_ "github.com/deo-labs/deoai/src/ai/claude"
	_ "github.com/deo-labs/deoai/src/ai/openai"
)
