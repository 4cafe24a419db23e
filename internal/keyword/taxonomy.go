package keyword

// Skill is one canonical requirement key and the lowercase alias strings
// that identify it in a job description.
type Skill struct {
	Key     string
	Aliases []string
}

// Taxonomy is the static skill catalogue used for requirement extraction.
var Taxonomy = []Skill{
	{Key: "Active Directory", Aliases: []string{"active directory", "entra id", "azure ad", "gruppenrichtlinien", "group policy", "gpo"}},
	{Key: "Windows Server", Aliases: []string{"windows server", "windows-server", "windows umgebung", "windows-umgebung", "windows environment"}},
	{Key: "Windows Client", Aliases: []string{"windows 10", "windows 11", "windows client", "windows-client"}},
	{Key: "Linux", Aliases: []string{"linux", "debian", "ubuntu", "red hat", "redhat", "rhel", "centos", "suse"}},
	{Key: "PowerShell", Aliases: []string{"powershell"}},
	{Key: "Bash", Aliases: []string{"bash", "shell-scripting", "shell scripting"}},
	{Key: "Python", Aliases: []string{"python"}},
	{Key: "Exchange", Aliases: []string{"exchange server", "exchange online", "ms exchange", "exchange"}},
	{Key: "Microsoft 365", Aliases: []string{"microsoft 365", "office 365", "m365", "o365", "sharepoint", "teams-administration"}},
	{Key: "Azure", Aliases: []string{"azure"}},
	{Key: "AWS", Aliases: []string{"aws", "amazon web services"}},
	{Key: "VMware", Aliases: []string{"vmware", "vsphere", "esxi"}},
	{Key: "Hyper-V", Aliases: []string{"hyper-v", "hyperv"}},
	{Key: "Docker", Aliases: []string{"docker", "container"}},
	{Key: "Kubernetes", Aliases: []string{"kubernetes", "k8s", "openshift"}},
	{Key: "Ansible", Aliases: []string{"ansible"}},
	{Key: "Terraform", Aliases: []string{"terraform"}},
	{Key: "Netzwerk", Aliases: []string{"tcp/ip", "netzwerktechnik", "networking", "lan", "wlan", "vlan", "routing", "switching", "dns", "dhcp"}},
	{Key: "Cisco", Aliases: []string{"cisco", "ccna"}},
	{Key: "Firewall", Aliases: []string{"firewall", "fortinet", "sophos", "palo alto", "pfsense"}},
	{Key: "VPN", Aliases: []string{"vpn", "ipsec", "wireguard"}},
	{Key: "IT-Sicherheit", Aliases: []string{"it-sicherheit", "it security", "informationssicherheit", "cyber security", "cybersecurity", "iso 27001", "bsi"}},
	{Key: "Backup", Aliases: []string{"backup", "veeam", "datensicherung"}},
	{Key: "Monitoring", Aliases: []string{"monitoring", "nagios", "zabbix", "prtg", "checkmk", "grafana"}},
	{Key: "Ticketsystem", Aliases: []string{"ticketsystem", "ticket-system", "jira", "otrs", "servicenow", "znuny"}},
	{Key: "ITIL", Aliases: []string{"itil"}},
	{Key: "SQL", Aliases: []string{"sql", "mysql", "postgresql", "mariadb"}},
	{Key: "Webserver", Aliases: []string{"apache", "nginx", "iis"}},
	{Key: "Virtualisierung", Aliases: []string{"virtualisierung", "virtualization", "citrix"}},
	{Key: "Hardware", Aliases: []string{"hardware", "drucker", "printer", "peripherie"}},
	{Key: "Softwareverteilung", Aliases: []string{"softwareverteilung", "sccm", "intune", "baramundi", "matrix42", "mecm"}},
	{Key: "ERP", Aliases: []string{"erp", "sap"}},
	{Key: "Git", Aliases: []string{"git"}},
	{Key: "CI/CD", Aliases: []string{"ci/cd", "jenkins", "gitlab ci", "github actions"}},
	{Key: "Englisch", Aliases: []string{"englisch", "english"}},
	{Key: "Deutsch", Aliases: []string{"deutschkenntnisse", "fließend deutsch", "german language", "fluent german"}},
	{Key: "Führerschein", Aliases: []string{"führerschein", "driving licence", "driver's license"}},
	{Key: "Teamarbeit", Aliases: []string{"teamarbeit", "teamfähigkeit", "teamplayer", "team player"}},
	{Key: "Lernbereitschaft", Aliases: []string{"lernbereitschaft", "willingness to learn", "eager to learn"}},
}
