package keyword

// TargetRole matches job titles of the IT administration / support roles
// the aggregator is built for.
var TargetRole = []string{
	"systemadministrator", "system administrator", "systemadmin", "sysadmin",
	"it-administrator", "it administrator", "it-admin", "administrator",
	"netzwerkadministrator", "network administrator", "netzwerktechniker",
	"it-support", "it support", "support engineer", "supporter",
	"helpdesk", "help desk", "servicedesk", "service desk",
	"1st level", "2nd level", "first level", "second level",
	"it-techniker", "it techniker", "it-systemelektroniker",
	"fachinformatiker", "systemintegration", "client management",
	"it-spezialist", "it specialist", "it-koordinator",
	"linux admin", "windows admin", "devops", "system engineer", "systems engineer",
}

// CareerSwitch matches postings that explicitly welcome career changers.
var CareerSwitch = []string{
	"quereinsteiger", "quereinstieg", "quereinsteigende",
	"career changer", "career change", "career switch",
	"ohne berufserfahrung", "keine berufserfahrung", "no experience required",
	"umschulung", "umschüler", "umsteiger",
	"berufseinsteiger", "einsteiger", "neueinsteiger",
	"trainee", "training on the job", "wir bilden dich aus", "einarbeitung",
}

// Junior matches junior-level postings.
var Junior = []string{
	"junior", "entry level", "entry-level", "einstiegsposition",
	"berufseinsteiger", "einsteiger", "absolvent", "graduate",
	"trainee", "werkstudent", "praktikum", "internship",
}

// Healthcare matches postings from the healthcare sector, used by the
// education-counseling shortlist.
var Healthcare = []string{
	"gesundheitswesen", "klinik", "krankenhaus", "praxis", "medizin", "pharma",
	"healthcare", "hospital", "clinic", "medical", "e-health", "digital health",
	"ärzte", "pflege", "labor", "diagnostik", "medizintechnik", "reha",
}

// SearchQueries are the role keywords sent to the job-board search APIs.
var SearchQueries = []string{
	"Systemadministrator",
	"IT-Administrator",
	"IT-Support",
	"Helpdesk",
	"Fachinformatiker Systemintegration",
	"Netzwerkadministrator",
	"Linux Administrator",
}
