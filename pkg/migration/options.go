package migration

// MigrationOptions はマイグレーションのオプション設定を含む構造体
type MigrationOptions struct {
	// 移行対象のIssueの状態 (open, closed, all)
	State string
	// 特定のIssue番号のみを対象とする場合に指定
	FilterIssueNumbers []int
	// 特定のIssue番号から再開する場合に指定
	ContinueFrom int
	// 移行する要素
	Labels     bool
	Milestones bool
	Issues     bool
	// 移行元と移行先が同じユーザー空間を共有しているか (assigneeを引き継げるか)
	SameInstall bool
	// Issue一覧に含まれるPull Requestを除外する
	SkipPullRequests bool
	// 移行元でcloseされているIssueを作成後にcloseする
	CloseClosed bool
	// 書き込みを行わずにログのみ出力する
	DryRun bool
	// 移行先の事前チェックを省略する
	SkipPreflight bool
	// 結果をYAMLで書き出すパス
	ReportPath string
}
