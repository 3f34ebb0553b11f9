package testutil

import "strings"

// Test payloads modelled on real scheduler folder exports. The map-notation
// samples are the shapes that regressed in the past; keep them verbatim.

// MinimalNested has two sibling objects under one key. Parsing must keep both.
const MinimalNested = `{A={RerunLimit={Units=Minutes, Every=0}, When={X=1}}}`

// WhenJobAFT places a resource-pool object after a nested When block.
const WhenJobAFT = `{A={When={X=1}, JobAFT={Type=Resource:Pool, Quantity=1}}}`

// VariablesArray is an array of single-key objects with spaces in the values.
const VariablesArray = `Variables=[{tm=%%TIME}, {HHt=%%SUBSTR %%tm 1 2}]`

// WeekDaysBlock checks array boundaries followed by more keys.
const WeekDaysBlock = `{When={WeekDays=[MON, TUE, WED, THU, FRI], MonthDays=[NONE], FromTime=2000, DaysRelation=OR}}`

// MailAction carries a prose Message with commas before a sibling key.
const MailAction = `{Mail_1={Type=Action:Mail, Subject=%%APPLIC ERROR_PROCESO, To=controlmerror@example.com, Message=Estimado, informo a Ud., AttachOutput=false}}`

// FolderJavaMap is a complete folder export in map notation.
const FolderJavaMap = `{GENER_NEXUS-DEMOGRAFICO={Type=SimpleFolder, ControlmServer=COOPEUCH, OrderMethod=Manual, ` +
	`CC1040P2={Type=Job:OS400:Full:CommandLine, CommandLine=CALL PGM(RBIENVFCL) PARM('CTINTDEM' 'NEXDEM'), ` +
	`SubApplication=GENER_NEXUS-DEMOGRAFICO, Priority=Very Low, FileName=CC1040P2, Confirm=true, Host=ibsqa, ` +
	`FilePath=CC1040P2, CreatedBy=emuser, Description=NEXUS-DEMOGRAFICO, RunAs=Q7ABATCH, ` +
	`Application=GENER_NEXUS-DEMOGRAFICO, ` +
	`Variables=[{tm=%%TIME}, {HHt=%%SUBSTR %%tm 1 2}, {MMt=%%SUBSTR %%tm 3 2}, {OS400-JOBD=USRPRF}, {OS400-JOB_OWNER=Q7ABATCH}], ` +
	`RerunLimit={Units=Minutes, Every=0}, ` +
	`When={WeekDays=[MON, TUE, WED, THU, FRI], MonthDays=[NONE], FromTime=2000, DaysRelation=OR, ConfirmationCalendars={Calendar=Cal_Habil}}, ` +
	`JobAFT={Type=Resource:Pool, Quantity=1}, ` +
	`IfBase:Folder:Output_12={Type=If:Output, Code=código de finalización 20, Action:SetToNotOK_0={Type=Action:SetToNotOK}, ` +
	`Mail_1={Type=Action:Mail, Subject=%%APPLIC ERROR_PROCESO, To=controlmerror@example.com, Message=Estimado, informo a Ud., AttachOutput=false}}, ` +
	`eventsToWaitFor={Type=WaitForEvents, Events=[{Event=PRECIERRE-EODAY-NEXUS-001-IBS-DIA}]}}}}`

// FolderJobPath is the object path to the job inside FolderJavaMap.
var FolderJobPath = []string{"GENER_NEXUS-DEMOGRAFICO", "CC1040P2"}

// FolderJSONWithRawNewlines is a JSON export whose Message literal contains
// raw CR LF and TAB bytes, which strict decoders reject.
var FolderJSONWithRawNewlines = strings.Join([]string{
	`{"GENER_NEXUS":{"Type":"SimpleFolder","CC1040P2":{"Type":"Job:OS400:Full:CommandLine",`,
	`"OS400-JOBD":"USRPRF","Confirm":true,"Quantity":1,`,
	`"Mail_1":{"Type":"Action:Mail","Message":"Estimado,` + "\r\n" + `informo` + "\t" + `que el job fallo.` + "\r\n\r\n" + `Atte.",`,
	`"AttachOutput":false}}}}`,
}, "")

// DeployRequestBody is a request envelope whose definitions are a
// map-notation string.
const DeployRequestBody = `{"ambiente":"DEV","token":"opaque","filename":"GENER_NEXUS","jsonData":"{GENER_NEXUS={Type=SimpleFolder, OS400-JOBD=USRPRF}}"}`

// DeployRequestObjectBody is a request envelope whose definitions are a JSON object.
const DeployRequestObjectBody = `{"ambiente":"QA","filename":"folder.json","jsonData":{"GENER_NEXUS":{"Type":"SimpleFolder"}}}`

// MalformedPayloads are inputs that must fail to parse.
var MalformedPayloads = map[string]string{
	"unterminated object": `{A={B=1}`,
	"unterminated array":  `{A=[1, 2}`,
	"missing equals":      `{A}`,
	"empty key":           `{=1}`,
	"trailing content":    `{A=1} extra`,
}
