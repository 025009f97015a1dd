package assignment

import "encoding/json"

// Encode serializes a snapshot as a JSON array.
func Encode(snapshot []Assignment) ([]byte, error) {
	if snapshot == nil {
		snapshot = []Assignment{}
	}
	return json.Marshal(snapshot)
}

// Decode parses a snapshot written by Encode. A JSON null decodes to an empty
// snapshot.
func Decode(data []byte) ([]Assignment, error) {
	var snapshot []Assignment
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	if snapshot == nil {
		snapshot = []Assignment{}
	}
	for i := range snapshot {
		if snapshot[i].Subtasks == nil {
			snapshot[i].Subtasks = []Subtask{}
		}
	}
	return snapshot, nil
}
