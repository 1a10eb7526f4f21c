package providers

import (
	_ "github.com/stake-plus/commitaudit/src/ai/gemini25"
	_ "github.com/stake-plus/commitaudit/src/ai/gpt4o"
	_ "github.com/stake-plus/commitaudit/src/ai/sonnet45"
)
