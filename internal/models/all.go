package models

// All lists every model in dependency order, for AutoMigrate-backed test
// databases. Production schemas come from the SQL migrations.
func All() []any {
	return []any{
		&User{},
		&UserSession{},
		&PasswordResetToken{},
		&Pregnancy{},
		&KickCount{},
		&WeightEntry{},
		&Symptom{},
		&Medication{},
		&BirthPlan{},
		&Consultation{},
		&ShoppingItem{},
		&Photo{},
		&DiaryEntry{},
		&DiaryAttachment{},
		&CommunityPost{},
		&CommunityComment{},
		&CommunityLike{},
		&BabyDevelopment{},
		&AccessLog{},
		&UserAnalytics{},
		&AuditLog{},
	}
}
