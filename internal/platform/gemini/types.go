package gemini

import (
	"github.com/lusolearn/lusolearn-api/internal/domain"
	"google.golang.org/genai"
)

// promptData represents the data passed to the prompt template
type promptData struct {
	Cards   []promptCard
	Folders []domain.Folder
}

type promptCard struct {
	ID          string
	Term        string
	Translation string
}

// ResponseSchema is the JSON document the model is asked to return.
type ResponseSchema struct {
	Suggestions []SuggestionSchema `json:"suggestions"`
}

// SuggestionSchema is one group of cards in the model answer.
type SuggestionSchema struct {
	Action              string   `json:"action"`
	TargetFolderID      string   `json:"targetFolderId,omitempty"`
	SuggestedFolderName string   `json:"suggestedFolderName,omitempty"`
	CardIDs             []string `json:"cardIds"`
}

func (s SuggestionSchema) toDomain() domain.SortSuggestion {
	return domain.SortSuggestion{
		Action:              domain.SortAction(s.Action),
		TargetFolderID:      s.TargetFolderID,
		SuggestedFolderName: s.SuggestedFolderName,
		CardIDs:             s.CardIDs,
	}
}

// responseSchema mirrors ResponseSchema for the model's structured output.
var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"suggestions": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"action": {
						Type: genai.TypeString,
						Enum: []string{string(domain.SortActionAssign), string(domain.SortActionCreate)},
					},
					"targetFolderId":      {Type: genai.TypeString},
					"suggestedFolderName": {Type: genai.TypeString},
					"cardIds": {
						Type:  genai.TypeArray,
						Items: &genai.Schema{Type: genai.TypeString},
					},
				},
				Required: []string{"action", "cardIds"},
			},
		},
	},
	Required: []string{"suggestions"},
}
