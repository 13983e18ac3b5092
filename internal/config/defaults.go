package config

// Default returns the compiled-in configuration. Callers get a fresh copy;
// mutating it does not affect later calls.
func Default() *Config {
	return &Config{
		Honorifics: []string{
			"mr", "mrs", "ms", "miss", "mx", "dr", "doctor", "prof", "professor",
			"sir", "madam", "jr", "junior", "sr", "senior",
			"ii", "iii", "iv", "phd", "md", "mba", "esq",
		},
		Abbreviations: map[string]string{
			"sr":   "senior",
			"jr":   "junior",
			"mgr":  "manager",
			"engg": "engineering",
			"eng":  "engineer",
			"dev":  "developer",
			"qa":   "quality assurance",
			"hr":   "human resources",
			"pm":   "project manager",
			"vp":   "vice president",
			"dir":  "director",
			"asst": "assistant",
			"assoc": "associate",
		},
		Departments: []string{
			"IT", "Quality Assurance", "Project Management", "Human Resources",
			"Finance", "Marketing", "Sales", "Customer Support", "Operations",
			"Research & Development", "Engineering", "Design", "Legal",
		},
		// Ordered: first keyword found in a position/role wins.
		DepartmentRules: []DepartmentRule{
			{"web developer", "IT"},
			{"full stack", "IT"},
			{"fullstack", "IT"},
			{"frontend", "IT"},
			{"backend", "IT"},
			{"devops", "IT"},
			{"data scientist", "IT"},
			{"data analyst", "IT"},
			{"developer", "IT"},
			{"programmer", "IT"},
			{"software", "IT"},
			{"scrum master", "Project Management"},
			{"project manager", "Project Management"},
			{"product manager", "Project Management"},
			{"program manager", "Project Management"},
			{"agile coach", "Project Management"},
			{"sdet", "Quality Assurance"},
			{"qa", "Quality Assurance"},
			{"quality", "Quality Assurance"},
			{"tester", "Quality Assurance"},
			{"testing", "Quality Assurance"},
			{"engineer", "IT"},
			{"human resources", "Human Resources"},
			{"recruiter", "Human Resources"},
			{"talent", "Human Resources"},
			{"hr", "Human Resources"},
			{"accountant", "Finance"},
			{"accounting", "Finance"},
			{"finance", "Finance"},
			{"marketing", "Marketing"},
			{"business development", "Sales"},
			{"sales", "Sales"},
			{"customer service", "Customer Support"},
			{"support", "Customer Support"},
		},
		ProgrammingLanguages: []string{
			"python", "java", "javascript", "c", "c++", "c#", "ruby", "go", "rust",
			"php", "swift", "kotlin", "scala", "r", "perl", "sql", "html", "css",
			"typescript", "bash", "shell", "powershell", "matlab", "vba", "groovy",
			"dart", "objective-c", "assembly", "fortran", "cobol", "lua", "haskell",
		},
		SkillSynonyms: map[string][]string{
			"javascript":       {"js", "javascript", "ecmascript", "es6", "vanilla js"},
			"react":            {"reactjs", "react.js", "react js", "react native"},
			"node":             {"nodejs", "node.js", "node js"},
			"typescript":       {"ts", "typescript"},
			"angular":          {"angularjs", "angular.js", "angular 2+"},
			"vue":              {"vuejs", "vue.js", "vue js"},
			"python":           {"python", "python3", "python2", "py", "cpython"},
			"django":           {"django", "django rest framework", "drf"},
			"java":             {"java", "java8", "java11", "java17", "j2ee"},
			"spring":           {"spring", "spring boot", "springboot", "spring mvc"},
			"aws":              {"aws", "amazon web services", "ec2", "s3", "lambda"},
			"azure":            {"azure", "microsoft azure", "azure devops"},
			"gcp":              {"gcp", "google cloud", "google cloud platform", "bigquery"},
			"docker":           {"docker", "dockerfile", "docker-compose", "containerization"},
			"kubernetes":       {"kubernetes", "k8s", "kubectl", "helm"},
			"devops":           {"devops", "ci/cd", "cicd", "jenkins", "gitlab ci", "github actions"},
			"sql":              {"sql", "mysql", "postgresql", "postgres", "sql server", "oracle", "sqlite"},
			"nosql":            {"nosql", "mongodb", "mongo", "cassandra", "dynamodb", "redis"},
			"selenium":         {"selenium", "selenium webdriver", "selenide"},
			"testing":          {"testing", "qa", "quality assurance", "test automation"},
			"agile":            {"agile", "scrum", "kanban", "safe", "lean"},
			"jira":             {"jira", "atlassian", "confluence"},
			"machine learning": {"machine learning", "ml", "deep learning", "ai"},
			"android":          {"android", "kotlin", "android studio"},
			"ios":              {"ios", "swift", "objective-c", "xcode"},
		},
		CitySynonyms: map[string][]string{
			"bangalore":     {"bangalore", "bengaluru", "blr", "bangalore urban"},
			"mumbai":        {"mumbai", "bombay", "bom"},
			"delhi":         {"delhi", "new delhi", "ncr", "noida", "gurgaon", "gurugram"},
			"chennai":       {"chennai", "madras", "maa"},
			"hyderabad":     {"hyderabad", "hyd", "secunderabad", "cyberabad"},
			"kolkata":       {"kolkata", "calcutta"},
			"pune":          {"pune", "poona"},
			"new york":      {"new york", "nyc", "ny", "manhattan", "brooklyn"},
			"san francisco": {"san francisco", "sf", "bay area", "silicon valley"},
			"los angeles":   {"los angeles", "la"},
			"seattle":       {"seattle", "sea"},
			"austin":        {"austin", "atx"},
			"boston":        {"boston", "bos"},
			"chicago":       {"chicago", "chi"},
			"london":        {"london", "ldn"},
			"manchester":    {"manchester", "man"},
			"remote":        {"remote", "work from home", "wfh", "anywhere", "distributed"},
		},
		TitleSeniority: map[string]int{
			"intern": 1, "trainee": 1,
			"junior": 2,
			"associate": 3, "qa analyst": 3, "product analyst": 3,
			"mid": 4, "qa engineer": 4,
			"senior": 5, "senior qa": 5, "product manager": 5,
			"lead": 6, "team lead": 6, "manager": 6, "qa lead": 6,
			"senior product manager": 6,
			"staff": 7, "senior manager": 7, "qa manager": 7,
			"principal": 8, "director": 8, "director of product": 8,
			"distinguished": 9, "senior director": 9, "vp": 9,
			"vice president": 9, "vp of product": 9,
			"fellow": 10, "svp": 10, "evp": 10,
			"cto": 10, "ceo": 10, "cfo": 10, "coo": 10,
		},
		Stopwords: []string{
			"a", "an", "the", "in", "on", "at", "of", "for", "with", "to",
			"who", "that", "are", "is", "all", "any", "show", "find", "list",
			"me", "employees", "people",
		},
		Thresholds: Thresholds{
			ActionableScore: 70,
			MaxArrayItems:   50,
			MaxNameLength:   100,
			MaxEmailLength:  254,
			MaxURLLength:    2048,
		},
	}
}
