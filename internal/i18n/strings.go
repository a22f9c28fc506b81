package i18n

import (
	"errors"

	"github.com/examencivique/examencivique/internal/auth"
)

// Strings is the UI text of one language. Fields ending in F are format
// strings.
type Strings struct {
	AppName string
	Tagline string

	KeyBack     string
	KeyQuit     string
	KeyNavigate string
	KeySelect   string
	KeyAnswer   string
	KeyMove     string
	KeyConfirm  string
	KeyCancel   string
	KeyContinue string

	HeaderAccuracyF string
	HeaderMasteredF string
	SignedOut       string
	TooSmallF       string

	// Home
	MenuStudy     string
	MenuExam      string
	MenuProgress  string
	MenuAccount   string
	MenuQuit      string
	StatAccuracy  string
	StatMastered  string
	StatPassed    string
	LoginRequired string

	// Study
	StudyTitle        string
	StudyAllF         string
	StudyWeakF        string
	StudyUnansweredF  string
	StudyCategoryF    string
	StudyEmpty        string
	StudyFinished     string
	StudyScoreF       string
	StudyRestart      string
	QuestionOfF       string
	AnswerCorrect     string
	AnswerWrong       string
	CorrectAnswerIsF  string
	ExplanationHeader string

	// Exam setup
	ExamSetupTitle    string
	ExamFormatF       string
	ExamPoolF         string
	ExamInsufficientF string
	ExamHistoryF      string
	ExamNoHistory     string
	ExamStart         string

	// Exam
	ExamTitle          string
	ExamAnsweredF      string
	ExamSubmitHint     string
	ExamSubmitConfirmF string
	ExamSubmitAllDone  string
	ExamQuitConfirm    string
	ExamTimeUp         string

	// Results
	ResultsTitle    string
	ResultPassed    string
	ResultFailed    string
	ResultScoreF    string
	ResultPassMarkF string
	ResultDuration  string
	ResultBreakdown string
	ResultReview    string
	ResultYourF     string
	ResultNoAnswer  string

	// Progress
	ProgressTitle    string
	Overview         string
	StatAnswered     string
	StatAttempts     string
	StatExamsTaken   string
	Categories       string
	CategoryRowF     string
	RecentExams      string
	NoExams          string
	ResetProgress    string
	ResetConfirm     string
	ResetDone        string
	LanguageF        string
	ToggleLanguage   string
	ExamRowF         string
	PassedShort      string
	FailedShort      string
	NotAttemptedMark string

	// Account
	LoginTitle       string
	RegisterTitle    string
	AccountTitle     string
	Email            string
	Password         string
	SignIn           string
	Register         string
	SignOut          string
	SwitchToRegister string
	SwitchToSignIn   string
	SignedInAsF      string
	NextField        string

	ErrInvalidEmail  string
	ErrWrongPassword string
	ErrUserNotFound  string
	ErrEmailInUse    string
	ErrWeakPassword  string
	ErrTooMany       string
	ErrUnknown       string
}

// For returns the string table of lang. Unknown languages get French.
func For(lang Language) *Strings {
	if lang == ZH {
		return &zh
	}
	return &fr
}

// AuthError turns an auth error into a message for the user.
func (s *Strings) AuthError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, auth.ErrInvalidEmail):
		return s.ErrInvalidEmail
	case errors.Is(err, auth.ErrWrongPassword):
		return s.ErrWrongPassword
	case errors.Is(err, auth.ErrUserNotFound):
		return s.ErrUserNotFound
	case errors.Is(err, auth.ErrEmailInUse):
		return s.ErrEmailInUse
	case errors.Is(err, auth.ErrWeakPassword):
		return s.ErrWeakPassword
	case errors.Is(err, auth.ErrTooManyAttempts):
		return s.ErrTooMany
	default:
		return s.ErrUnknown
	}
}

var fr = Strings{
	AppName: "Examen Civique",
	Tagline: "Préparez l'examen civique de la naturalisation et du titre de séjour",

	KeyBack:     "Retour",
	KeyQuit:     "Quitter",
	KeyNavigate: "Naviguer",
	KeySelect:   "Choisir",
	KeyAnswer:   "Répondre",
	KeyMove:     "Question préc./suiv.",
	KeyConfirm:  "Confirmer",
	KeyCancel:   "Annuler",
	KeyContinue: "Continuer",

	HeaderAccuracyF: "Réussite %d%%",
	HeaderMasteredF: "Maîtrisées %d",
	SignedOut:       "Non connecté",
	TooSmallF:       "Terminal trop petit !\n\nAgrandissez-le à au moins\n%d x %d\n\nActuel : %d x %d",

	MenuStudy:     "RÉVISER",
	MenuExam:      "EXAMEN BLANC",
	MenuProgress:  "MA PROGRESSION",
	MenuAccount:   "MON COMPTE",
	MenuQuit:      "QUITTER",
	StatAccuracy:  "Réussite",
	StatMastered:  "Maîtrisées",
	StatPassed:    "Examens réussis",
	LoginRequired: "Connectez-vous pour commencer une session.",

	StudyTitle:        "Réviser",
	StudyAllF:         "Toutes les questions (%d)",
	StudyWeakF:        "Points faibles (%d)",
	StudyUnansweredF:  "Jamais répondues (%d)",
	StudyCategoryF:    "%s (%d)",
	StudyEmpty:        "Aucune question pour ce mode.",
	StudyFinished:     "Session terminée !",
	StudyScoreF:       "%d bonnes réponses sur %d",
	StudyRestart:      "Recommencer",
	QuestionOfF:       "Question %d / %d",
	AnswerCorrect:     "Bonne réponse !",
	AnswerWrong:       "Mauvaise réponse",
	CorrectAnswerIsF:  "La bonne réponse : %s",
	ExplanationHeader: "Explication",

	ExamSetupTitle:    "Examen blanc",
	ExamFormatF:       "%d questions (%d de connaissances, %d de mise en situation), %d minutes, %d bonnes réponses pour réussir.",
	ExamPoolF:         "Banque : %d de connaissances, %d de mise en situation",
	ExamInsufficientF: "Pas assez de questions pour ce niveau (%d/%d, %d/%d).",
	ExamHistoryF:      "%d passés, %d réussis, meilleur score %d%%",
	ExamNoHistory:     "Aucun examen passé à ce niveau.",
	ExamStart:         "Commencer",

	ExamTitle:          "Examen",
	ExamAnsweredF:      "%d/%d répondues",
	ExamSubmitHint:     "Terminer",
	ExamSubmitConfirmF: "Il reste %d question(s) sans réponse. Terminer quand même ?",
	ExamSubmitAllDone:  "Terminer l'examen et voir le résultat ?",
	ExamQuitConfirm:    "Abandonner l'examen ? Il ne sera pas enregistré.",
	ExamTimeUp:         "Temps écoulé",

	ResultsTitle:    "Résultat",
	ResultPassed:    "ADMIS",
	ResultFailed:    "NON ADMIS",
	ResultScoreF:    "%d / %d (%d%%)",
	ResultPassMarkF: "Seuil de réussite : %d bonnes réponses",
	ResultDuration:  "Durée",
	ResultBreakdown: "Par thème",
	ResultReview:    "Questions manquées",
	ResultYourF:     "Votre réponse : %s",
	ResultNoAnswer:  "sans réponse",

	ProgressTitle:    "Ma progression",
	Overview:         "Vue d'ensemble",
	StatAnswered:     "Questions vues",
	StatAttempts:     "Réponses",
	StatExamsTaken:   "Examens passés",
	Categories:       "Thèmes",
	CategoryRowF:     "%d/%d vues, %d maîtrisées",
	RecentExams:      "Derniers examens",
	NoExams:          "Aucun examen pour l'instant.",
	ResetProgress:    "Effacer la progression",
	ResetConfirm:     "Effacer toute la progression ? (o/n)",
	ResetDone:        "Progression effacée.",
	LanguageF:        "Langue : %s",
	ToggleLanguage:   "Changer de langue",
	ExamRowF:         "%s  %-3s  %2d/%d  %3d%%  %s  %s",
	PassedShort:      "admis",
	FailedShort:      "échec",
	NotAttemptedMark: "-",

	LoginTitle:       "Connexion",
	RegisterTitle:    "Créer un compte",
	AccountTitle:     "Mon compte",
	Email:            "E-mail",
	Password:         "Mot de passe",
	SignIn:           "Se connecter",
	Register:         "Créer le compte",
	SignOut:          "Se déconnecter",
	SwitchToRegister: "Pas de compte ? Ctrl+R pour en créer un",
	SwitchToSignIn:   "Déjà inscrit ? Ctrl+R pour se connecter",
	SignedInAsF:      "Connecté : %s",
	NextField:        "Champ suivant",

	ErrInvalidEmail:  "Adresse e-mail invalide.",
	ErrWrongPassword: "Mot de passe incorrect.",
	ErrUserNotFound:  "Aucun compte avec cette adresse.",
	ErrEmailInUse:    "Cette adresse est déjà utilisée.",
	ErrWeakPassword:  "Le mot de passe doit contenir au moins 6 caractères.",
	ErrTooMany:       "Trop de tentatives. Réessayez dans une minute.",
	ErrUnknown:       "Une erreur est survenue.",
}

var zh = Strings{
	AppName: "公民考试",
	Tagline: "为入籍和居留卡的公民知识考试做准备",

	KeyBack:     "返回",
	KeyQuit:     "退出",
	KeyNavigate: "移动",
	KeySelect:   "选择",
	KeyAnswer:   "作答",
	KeyMove:     "上一题/下一题",
	KeyConfirm:  "确认",
	KeyCancel:   "取消",
	KeyContinue: "继续",

	HeaderAccuracyF: "正确率 %d%%",
	HeaderMasteredF: "已掌握 %d",
	SignedOut:       "未登录",
	TooSmallF:       "终端窗口太小！\n\n请调整到至少\n%d x %d\n\n当前：%d x %d",

	MenuStudy:     "复习",
	MenuExam:      "模拟考试",
	MenuProgress:  "学习进度",
	MenuAccount:   "我的账户",
	MenuQuit:      "退出",
	StatAccuracy:  "正确率",
	StatMastered:  "已掌握",
	StatPassed:    "通过考试",
	LoginRequired: "请先登录再开始练习。",

	StudyTitle:        "复习",
	StudyAllF:         "全部题目 (%d)",
	StudyWeakF:        "薄弱题目 (%d)",
	StudyUnansweredF:  "未做过的题目 (%d)",
	StudyCategoryF:    "%s (%d)",
	StudyEmpty:        "此模式下没有题目。",
	StudyFinished:     "本轮复习完成！",
	StudyScoreF:       "答对 %d 题，共 %d 题",
	StudyRestart:      "重新开始",
	QuestionOfF:       "第 %d / %d 题",
	AnswerCorrect:     "回答正确！",
	AnswerWrong:       "回答错误",
	CorrectAnswerIsF:  "正确答案：%s",
	ExplanationHeader: "解析",

	ExamSetupTitle:    "模拟考试",
	ExamFormatF:       "共 %d 题（知识题 %d，情景题 %d），%d 分钟，答对 %d 题即通过。",
	ExamPoolF:         "题库：知识题 %d，情景题 %d",
	ExamInsufficientF: "该级别题目不足（%d/%d，%d/%d）。",
	ExamHistoryF:      "已考 %d 次，通过 %d 次，最高 %d%%",
	ExamNoHistory:     "该级别尚无考试记录。",
	ExamStart:         "开始",

	ExamTitle:          "考试",
	ExamAnsweredF:      "已答 %d/%d",
	ExamSubmitHint:     "交卷",
	ExamSubmitConfirmF: "还有 %d 题未作答，确定交卷吗？",
	ExamSubmitAllDone:  "交卷并查看结果？",
	ExamQuitConfirm:    "放弃本次考试？成绩不会被记录。",
	ExamTimeUp:         "时间到",

	ResultsTitle:    "考试结果",
	ResultPassed:    "通过",
	ResultFailed:    "未通过",
	ResultScoreF:    "%d / %d (%d%%)",
	ResultPassMarkF: "及格线：答对 %d 题",
	ResultDuration:  "用时",
	ResultBreakdown: "各主题得分",
	ResultReview:    "答错的题目",
	ResultYourF:     "你的答案：%s",
	ResultNoAnswer:  "未作答",

	ProgressTitle:    "学习进度",
	Overview:         "总览",
	StatAnswered:     "做过的题目",
	StatAttempts:     "作答次数",
	StatExamsTaken:   "参加考试",
	Categories:       "主题",
	CategoryRowF:     "已做 %d/%d，掌握 %d",
	RecentExams:      "最近的考试",
	NoExams:          "暂无考试记录。",
	ResetProgress:    "清除学习进度",
	ResetConfirm:     "确定清除全部学习进度？(y/n)",
	ResetDone:        "学习进度已清除。",
	LanguageF:        "语言：%s",
	ToggleLanguage:   "切换语言",
	ExamRowF:         "%s  %-3s  %2d/%d  %3d%%  %s  %s",
	PassedShort:      "通过",
	FailedShort:      "未过",
	NotAttemptedMark: "-",

	LoginTitle:       "登录",
	RegisterTitle:    "注册",
	AccountTitle:     "我的账户",
	Email:            "邮箱",
	Password:         "密码",
	SignIn:           "登录",
	Register:         "注册",
	SignOut:          "退出登录",
	SwitchToRegister: "没有账户？按 Ctrl+R 注册",
	SwitchToSignIn:   "已有账户？按 Ctrl+R 登录",
	SignedInAsF:      "已登录：%s",
	NextField:        "下一项",

	ErrInvalidEmail:  "邮箱地址无效。",
	ErrWrongPassword: "密码错误。",
	ErrUserNotFound:  "该邮箱尚未注册。",
	ErrEmailInUse:    "该邮箱已被注册。",
	ErrWeakPassword:  "密码至少需要 6 个字符。",
	ErrTooMany:       "尝试次数过多，请一分钟后再试。",
	ErrUnknown:       "发生错误。",
}
