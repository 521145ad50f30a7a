package pipeline

// Step names recorded on the job row. The dashboard's step ladder keys off
// these strings, so they are part of the API contract.
const (
	StepUploading      = "uploading"
	StepTranscribing   = "transcribing"
	StepGeneratingDocs = "generating_docs"
	StepTranslating    = "translating"
	StepCompleted      = "completed"
)

// Fractional budget per stage. Translation shares the remainder between
// target languages; the final slice to 1.0 is claimed only at completion.
const (
	progressUploading  = 0.05
	progressExtracted  = 0.20
	progressDocsDone   = 0.55
	translationBudget  = 0.40
	progressTranslated = progressDocsDone + translationBudget
	progressCompleted  = 1.0
)

// EstimateProgress maps a step plus sub-progress to a fraction in [0,1].
// For StepTranslating, subIndex is the number of fully finished target
// languages and totalSubItems the number of target (non-primary) languages.
// Values are non-decreasing along the stage sequence, and 1.0 is returned
// only for StepCompleted.
func EstimateProgress(step string, subIndex, totalSubItems int) float64 {
	switch step {
	case StepUploading:
		return progressUploading
	case StepTranscribing:
		return progressExtracted
	case StepGeneratingDocs:
		return progressDocsDone
	case StepTranslating:
		if totalSubItems <= 0 {
			return progressTranslated
		}
		if subIndex > totalSubItems {
			subIndex = totalSubItems
		}
		return progressDocsDone + translationBudget*float64(subIndex)/float64(totalSubItems)
	case StepCompleted:
		return progressCompleted
	default:
		return 0
	}
}
