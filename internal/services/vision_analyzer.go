package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// plantDiagnosisPrompt asks for farmer-friendly advice about the pictured plant.
const plantDiagnosisPrompt = `You are an experienced plant pathologist advising Indian farmers. Use plain words and explain any technical term you must use.

Look at the plant in the image and answer under these headings:
1. What is the problem: name the disease simply, what it looks like, which parts are affected.
2. Why it happened: likely causes and the signs a farmer can spot.
3. How to fix it: step by step, cheapest options first.
4. How to prevent it next time: simple daily or weekly tasks and warning signs.
5. Treatment options: common chemical and natural remedies with local names, approximate cost in Indian Rupees (₹) and safe usage.
6. Where to get help: the local Krishi Vigyan Kendra (KVK), government support for buying medicines, agriculture officers.

End with a short safety note asking the farmer to confirm with the local agriculture officer and buy medicines only from authorised shops.`

// cannedDiagnosis is returned when no API key is configured.
const cannedDiagnosis = "Automatic plant diagnosis is not configured on this server. " +
	"Please show the plant to your local Krishi Vigyan Kendra (KVK) or agriculture officer."

// VisionAnalyzer turns a plant photo into diagnosis text.
type VisionAnalyzer interface {
	AnalyzePlantImage(ctx context.Context, img []byte, contentType string) (string, error)
}

// OpenAIVisionAnalyzer wraps the OpenAI client. If client is nil, analysis
// returns a canned answer.
type OpenAIVisionAnalyzer struct {
	client *openai.Client
	model  string
}

// NewOpenAIVisionAnalyzer creates the analyzer. Pass an empty apiKey to disable calls.
func NewOpenAIVisionAnalyzer(apiKey, model string) *OpenAIVisionAnalyzer {
	if apiKey == "" {
		return &OpenAIVisionAnalyzer{client: nil, model: model}
	}
	c := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIVisionAnalyzer{client: &c, model: model}
}

func (a *OpenAIVisionAnalyzer) AnalyzePlantImage(ctx context.Context, img []byte, contentType string) (string, error) {
	if a.client == nil {
		return cannedDiagnosis, nil
	}

	dataURL := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(img)

	req := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
						openai.TextContentPart(plantDiagnosisPrompt),
						openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
							URL:    dataURL,
							Detail: "auto",
						}),
					},
				},
			},
		}},
	}

	resp, err := a.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: no choices returned")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("openai: empty analysis")
	}
	return text, nil
}
