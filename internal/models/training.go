package models

import "time"

// Delimiter tokens used to tag training examples.
const (
	TokenQuestion       = "[SORU]"
	TokenAnswer         = "[CEVAP]"
	TokenRecommendation = "[ÖNERİ]"
	TokenContext        = "[BAĞLAM]"
	TokenRiskLow        = "[RİSK_DÜŞÜK]"
	TokenRiskMedium     = "[RİSK_ORTA]"
	TokenRiskHigh       = "[RİSK_YÜKSEK]"
)

// SpecialTokens lists the additional tokens the fine-tuned tokenizer must know.
var SpecialTokens = []string{
	TokenQuestion, TokenAnswer, TokenRecommendation, TokenContext,
	TokenRiskLow, TokenRiskMedium, TokenRiskHigh,
}

// QAPair is one question/answer row of the finance dataset.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// TrainingExample is one line of a corpus file.
type TrainingExample struct {
	Text string `json:"text"`
}

// Hyperparameters records the training arguments for a run.
type Hyperparameters struct {
	Epochs         int     `json:"num_train_epochs"`
	BatchSize      int     `json:"per_device_train_batch_size"`
	WarmupSteps    int     `json:"warmup_steps"`
	WeightDecay    float64 `json:"weight_decay"`
	MaxLength      int     `json:"max_length"`
	EvalSteps      int     `json:"eval_steps"`
	SaveSteps      int     `json:"save_steps"`
	SaveTotalLimit int     `json:"save_total_limit"`
}

// Fine-tune job states reported by OpenAI-compatible backends.
const (
	JobStatusValidating = "validating_files"
	JobStatusQueued     = "queued"
	JobStatusRunning    = "running"
	JobStatusSucceeded  = "succeeded"
	JobStatusFailed     = "failed"
	JobStatusCancelled  = "cancelled"
)

// FineTuneJob is the backend's view of a submitted job.
type FineTuneJob struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	FineTunedModel string `json:"fine_tuned_model,omitempty"`
}

// Terminal reports whether the job will not change state again.
func (j *FineTuneJob) Terminal() bool {
	if j == nil {
		return false
	}
	switch j.Status {
	case JobStatusSucceeded, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}

// TrainingManifest is written to manifest.json in the output directory.
type TrainingManifest struct {
	RunID            string          `json:"run_id"`
	BaseModel        string          `json:"base_model"`
	Dataset          string          `json:"dataset"`
	Country          string          `json:"country"`
	Seed             int64           `json:"seed"`
	ContextCount     int             `json:"context_count"`
	QACount          int             `json:"qa_count"`
	TrainCount       int             `json:"train_count"`
	ValidationCount  int             `json:"validation_count"`
	TruncatedCount   int             `json:"truncated_count"`
	SpecialTokens    []string        `json:"special_tokens"`
	Hyperparameters  Hyperparameters `json:"hyperparameters"`
	TrainFile        string          `json:"train_file"`
	ValidationFile   string          `json:"validation_file"`
	TrainFileID      string          `json:"train_file_id,omitempty"`
	ValidationFileID string          `json:"validation_file_id,omitempty"`
	Job              *FineTuneJob    `json:"job,omitempty"`
	DryRun           bool            `json:"dry_run"`
	StartedAt        time.Time       `json:"started_at"`
	CompletedAt      time.Time       `json:"completed_at"`
}
