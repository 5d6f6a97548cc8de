package domain

import (
	"github.com/yungbote/vitality-backend/internal/domain/health"
)

const (
	CategorySleep        = health.CategorySleep
	CategoryActivity     = health.CategoryActivity
	CategoryMood         = health.CategoryMood
	CategoryNutrition    = health.CategoryNutrition
	CategoryBiometric    = health.CategoryBiometric
	CategoryDailySummary = health.CategoryDailySummary

	SourceManual      = health.SourceManual
	SourceFitbit      = health.SourceFitbit
	SourceGoogleFit   = health.SourceGoogleFit
	SourceAppleHealth = health.SourceAppleHealth

	SignificanceWeak       = health.SignificanceWeak
	SignificanceModerate   = health.SignificanceModerate
	SignificanceStrong     = health.SignificanceStrong
	SignificanceVeryStrong = health.SignificanceVeryStrong

	DirectionPositive = health.DirectionPositive
	DirectionNegative = health.DirectionNegative

	ValidationPending   = health.ValidationPending
	ValidationConfirmed = health.ValidationConfirmed
	ValidationRejected  = health.ValidationRejected

	PredictionEnergy       = health.PredictionEnergy
	PredictionMood         = health.PredictionMood
	PredictionSleepQuality = health.PredictionSleepQuality
	PredictionProductivity = health.PredictionProductivity
	PredictionHealthScore  = health.PredictionHealthScore

	HorizonOneDay  = health.HorizonOneDay
	HorizonOneWeek = health.HorizonOneWeek

	MomentHydrationReminder = health.MomentHydrationReminder
	MomentMovementBreak     = health.MomentMovementBreak
	MomentBreathingExercise = health.MomentBreathingExercise
	MomentMoodCheck         = health.MomentMoodCheck
	MomentEnergyBoost       = health.MomentEnergyBoost

	MomentScheduled    = health.MomentScheduled
	MomentDelivered    = health.MomentDelivered
	MomentAcknowledged = health.MomentAcknowledged
	MomentIgnored      = health.MomentIgnored
	MomentCompleted    = health.MomentCompleted
	MomentDismissed    = health.MomentDismissed

	DifficultyEasy     = health.DifficultyEasy
	DifficultyModerate = health.DifficultyModerate
)

type (
	Measure          = health.Measure
	HealthCategory   = health.Category
	HealthRecord     = health.HealthRecord
	HealthMetrics    = health.Metrics
	SleepMetrics     = health.SleepMetrics
	ActivityMetrics  = health.ActivityMetrics
	MoodMetrics      = health.MoodMetrics
	NutritionMetrics = health.NutritionMetrics
	BiometricMetrics = health.BiometricMetrics

	Significance      = health.Significance
	Direction         = health.Direction
	ValidationStatus  = health.ValidationStatus
	Correlation       = health.Correlation
	CorrelationFilter = health.CorrelationFilter

	PredictionType       = health.PredictionType
	Horizon              = health.Horizon
	FactorWeight         = health.FactorWeight
	ActionableInsight    = health.ActionableInsight
	PredictionValidation = health.PredictionValidation
	PredictionRecord     = health.PredictionRecord

	MomentType       = health.MomentType
	MomentStatus     = health.MomentStatus
	Difficulty       = health.Difficulty
	MomentContent    = health.MomentContent
	MomentProvenance = health.MomentProvenance
	MomentResponse   = health.MomentResponse
	MicroMoment      = health.MicroMoment

	TimeWindow  = health.TimeWindow
	UserProfile = health.UserProfile
)

var (
	PredictionTypes = health.PredictionTypes
	MomentTypes     = health.MomentTypes
	Some            = health.Some
	CanTransition   = health.CanTransition
)
