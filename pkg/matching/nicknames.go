package matching

// nicknameGroups lists common given-name equivalence groups. Absence
// from this table means "no bonus", never a mismatch; edit distance
// still applies. The table is not exhaustive and can be extended via
// Config.ExtraNicknames.
var nicknameGroups = [][]string{
	{"robert", "rob", "bob", "bobby", "robbie"},
	{"william", "will", "bill", "billy", "liam"},
	{"richard", "rick", "ricky", "rich", "dick"},
	{"james", "jim", "jimmy", "jamie"},
	{"john", "jack", "johnny", "jon"},
	{"jonathan", "jon", "jonny"},
	{"michael", "mike", "mikey", "mick"},
	{"christopher", "chris", "topher"},
	{"joseph", "joe", "joey"},
	{"thomas", "tom", "tommy"},
	{"charles", "charlie", "chuck", "chas"},
	{"daniel", "dan", "danny"},
	{"matthew", "matt", "matty"},
	{"anthony", "tony"},
	{"donald", "don", "donny"},
	{"steven", "steve", "stevie"},
	{"stephen", "steve", "stevie"},
	{"edward", "ed", "eddie", "ted", "teddy", "ned"},
	{"andrew", "andy", "drew"},
	{"joshua", "josh"},
	{"kenneth", "ken", "kenny"},
	{"gerald", "gerry", "jerry"},
	{"timothy", "tim", "timmy"},
	{"ronald", "ron", "ronnie"},
	{"lawrence", "larry"},
	{"gregory", "greg"},
	{"benjamin", "ben", "benny", "benji"},
	{"samuel", "sam", "sammy"},
	{"alexander", "alex", "sandy", "xander"},
	{"nicholas", "nick", "nicky"},
	{"zachary", "zach", "zack"},
	{"patrick", "pat", "paddy"},
	{"raymond", "ray"},
	{"leonard", "leo", "lenny", "len"},
	{"frederick", "fred", "freddie"},
	{"theodore", "ted", "teddy", "theo"},
	{"francis", "frank", "frankie"},
	{"henry", "hank", "harry"},
	{"elizabeth", "liz", "lizzie", "beth", "betty", "betsy", "eliza", "libby"},
	{"margaret", "maggie", "meg", "peggy", "marge", "madge"},
	{"katherine", "kate", "katie", "kathy", "kat", "kitty"},
	{"catherine", "cathy", "kate", "katie", "cat"},
	{"jennifer", "jen", "jenny"},
	{"jessica", "jess", "jessie"},
	{"patricia", "pat", "patty", "tricia", "trish"},
	{"deborah", "deb", "debbie"},
	{"barbara", "barb", "barbie"},
	{"susan", "sue", "susie", "suzy"},
	{"rebecca", "becca", "becky"},
	{"stephanie", "steph"},
	{"kimberly", "kim"},
	{"michelle", "shelly"},
	{"christine", "chris", "christy", "tina"},
	{"christina", "chris", "christy", "tina"},
	{"amanda", "mandy"},
	{"melissa", "mel", "missy"},
	{"victoria", "vicky", "tori"},
	{"sandra", "sandy"},
	{"cynthia", "cindy"},
	{"pamela", "pam"},
	{"dorothy", "dot", "dottie"},
	{"florence", "flo"},
	{"virginia", "ginny"},
	{"josephine", "jo", "josie"},
	{"abigail", "abby", "gail"},
	{"alexandra", "alex", "sandra", "lexi"},
	{"samantha", "sam", "sammy"},
	{"danielle", "dani"},
	{"gabrielle", "gabby"},
	{"isabella", "bella", "izzy"},
	{"natalie", "nat"},
	{"veronica", "ronnie"},
	{"eleanor", "ellie", "nora"},
	{"emily", "em", "emmy"},
	{"nancy", "nan"},
	{"martha", "marty"},
	{"judith", "judy"},
	{"carolyn", "carol"},
	{"caroline", "carol", "carrie"},
}

// NicknameTable resolves nickname equivalence between normalized given
// names.
type NicknameTable struct {
	groups map[string]int
	next   int
}

// NewNicknameTable builds the default table plus any extra groups.
func NewNicknameTable(extra [][]string) *NicknameTable {
	t := &NicknameTable{groups: make(map[string]int)}
	for _, group := range nicknameGroups {
		t.addGroup(group)
	}
	for _, group := range extra {
		t.addGroup(group)
	}
	return t
}

// addGroup merges a group of equivalent names. A name already present
// pulls the new group into its existing equivalence class; a group
// whose members span several classes collapses them all into one.
func (t *NicknameTable) addGroup(names []string) {
	id := -1
	for _, name := range names {
		existing, ok := t.groups[name]
		if !ok {
			continue
		}
		if id < 0 {
			id = existing
			continue
		}
		if existing != id {
			for member, class := range t.groups {
				if class == existing {
					t.groups[member] = id
				}
			}
		}
	}
	if id < 0 {
		id = t.next
		t.next++
	}
	for _, name := range names {
		t.groups[name] = id
	}
}

// Equivalent reports whether two normalized given names belong to the
// same nickname group.
func (t *NicknameTable) Equivalent(a, b string) bool {
	if a == "" || b == "" || a == b {
		return false
	}
	ga, ok := t.groups[a]
	if !ok {
		return false
	}
	gb, ok := t.groups[b]
	return ok && ga == gb
}
