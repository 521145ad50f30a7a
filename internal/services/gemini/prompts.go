package gemini

import "fmt"

var audienceInstructions = map[string]string{
	"developers": `Write for software developers. Include technical details, API references, code snippets, and configuration. Be precise and concise. Use technical terminology freely.`,
	"end-users": `Write for non-technical end users. Focus on what they can do, not how it works internally. Use simple language, step-by-step instructions, and reference UI elements by name.`,
	"ai-agents": `Write for LLM consumption (AI coding assistants, agents, RAG systems). Optimize for token efficiency and machine parsing:
- No filler words, no conversational tone, no redundancy
- Use structured formats: tables for parameters, typed signatures for APIs, enums for options
- Every code snippet must be complete and copy-pasteable
- Include explicit error codes, edge cases, and version/compatibility notes
- Use consistent heading hierarchy for reliable section extraction
- Prefer lists and key-value pairs over prose paragraphs`,
}

func extractionPrompt(minSeconds, maxSeconds int) string {
	return fmt.Sprintf(`Analyze this video and return a JSON array of segments. Each segment should cover a logical section of the video (%d-%d seconds each).

For each segment provide:
- "start_time": start in seconds (number)
- "end_time": end in seconds (number)
- "spoken_content": what is being said (transcription)
- "visual_context": what is visually happening on screen (UI elements, code, clicks, navigation)
- "topic": a short title for this segment

Return ONLY valid JSON, no markdown fences.`, minSeconds, maxSeconds)
}

func docGenerationPrompt(audience, segmentsJSON string) string {
	instruction, ok := audienceInstructions[audience]
	if !ok {
		instruction = audienceInstructions["developers"]
	}
	return fmt.Sprintf(`You are a technical writer creating documentation from a product video.

Target audience: %s
%s

Video segments (with timestamps and visual context):
%s

Generate a structured documentation article in JSON format:
{
  "title": "Article title",
  "chapters": [
    {
      "title": "Chapter title",
      "sections": [
        {
          "heading": "Section heading",
          "content": "Markdown content with video timestamp references like [video:MM:SS]",
          "timestamp_ref": "MM:SS"
        }
      ]
    }
  ]
}

Rules:
- Reference specific video timestamps using [video:MM:SS] format
- Each section should be self-contained and readable
- Group related content into chapters
- Include code snippets for developer audience where relevant
- Return ONLY valid JSON, no markdown fences.`, audience, instruction, segmentsJSON)
}

func textTranslationPrompt(targetLanguage, content string) string {
	return fmt.Sprintf(`Translate the following documentation to %s.
Preserve all formatting, code snippets, [video:MM:SS] timestamp references, and technical terms.
Only translate the natural language text. Return ONLY the translated text, no preamble.

%s`, targetLanguage, content)
}

func documentTranslationPrompt(targetLanguage, contentJSON string) string {
	return fmt.Sprintf(`Translate the following JSON document to %s.
Rules:
- Preserve the exact JSON structure (all "type", "attrs", "marks" fields unchanged)
- Only translate the "text" field values that contain natural language
- Do NOT translate code snippets, URLs, or technical identifiers
- Preserve [video:MM:SS] references exactly
- Return ONLY valid JSON, no markdown fences.

%s`, targetLanguage, contentJSON)
}

func captionTranslationPrompt(targetLanguage, vtt string) string {
	return fmt.Sprintf(`Translate the following WebVTT subtitle file to %s.
Preserve all timestamps exactly as they are. Only translate the subtitle text lines.
Return the complete VTT file with translated text. Return ONLY the VTT content, no preamble.

%s`, targetLanguage, vtt)
}
