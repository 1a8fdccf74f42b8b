package constvars

const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
)

const (
	AppName = "qbuilder"
)

const (
	MetricsNamespace = "qbuilder"
	MetricsSubsystem = "session"
)

// Finding properties reported by the referential validator.
const (
	FindingPropertyLinkID                 = "linkId"
	FindingPropertyOrphan                 = "orphan"
	FindingPropertyInitial                = "initial"
	FindingPropertyEnableWhenQuestion     = "enableWhen.question"
	FindingPropertyEnableWhenAnswerPrefix = "enableWhen.answer"
)
