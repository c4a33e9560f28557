package questions

// ResourceKind groups result-page links.
type ResourceKind string

const (
	KindCommunity    ResourceKind = "community"
	KindProfessional ResourceKind = "professional"
	KindEducational  ResourceKind = "educational"
)

// Resource is an external link shown alongside screening results.
type Resource struct {
	Title       string
	Description string
	URL         string
	Kind        ResourceKind
}

var resources = map[Instrument][]Resource{
	ADHD: {
		{Title: "CHADD (Children and Adults with ADHD)", Description: "National resource for evidence-based information and support for ADHD", URL: "https://chadd.org", Kind: KindEducational},
		{Title: "ADDitude Magazine", Description: "Practical strategies, expert advice, and community support for ADHD", URL: "https://additudemag.com", Kind: KindEducational},
		{Title: "Find an ADHD Professional", Description: "Directory of healthcare providers specializing in ADHD assessment and treatment", URL: "https://chadd.org/professional-directory", Kind: KindProfessional},
		{Title: "ADHD Support Groups", Description: "Connect with others who understand your experience", URL: "https://chadd.org/support", Kind: KindCommunity},
	},
	Autism: {
		{Title: "Autism Self Advocacy Network (ASAN)", Description: "Advocacy organization run by and for autistic adults", URL: "https://autisticadvocacy.org", Kind: KindCommunity},
		{Title: "Autistic Women & Nonbinary Network", Description: "Support and resources for autistic women and nonbinary individuals", URL: "https://awnnetwork.org", Kind: KindCommunity},
		{Title: "Find Autism Assessment Services", Description: "Directory of professionals who provide autism assessments for adults", URL: "https://www.autism.org.uk/directory", Kind: KindProfessional},
		{Title: "Autism Research Centre", Description: "Research and resources from the creators of the AQ-10", URL: "https://www.autismresearchcentre.com", Kind: KindEducational},
	},
}

// Resources returns the links shown with an instrument's results.
func Resources(instrument Instrument) []Resource {
	return append([]Resource(nil), resources[instrument]...)
}
