// Package faq serves the fixed knowledge base the agent reads answers
// from, plus the static business-hours and roadside-assistance texts.
package faq

import (
	"sort"
	"strings"
)

// Topic names one section of the knowledge base.
type Topic string

const (
	TopicLeasing   Topic = "leasing"
	TopicFleet     Topic = "fleet"
	TopicEV        Topic = "ev"
	TopicMOT       Topic = "mot"
	TopicPricing   Topic = "pricing"
	TopicContracts Topic = "contracts"
	TopicCareers   Topic = "careers"
	TopicGeneral   Topic = "general"
)

var answers = map[Topic]string{
	TopicLeasing: `Vehicle Leasing FAQs:

Q: What is full-service vehicle leasing?
A: Full-service leasing includes the vehicle, maintenance, insurance, road tax, and breakdown cover in one monthly payment. No hidden costs.

Q: How long are typical lease terms?
A: Lease terms typically range from 24 to 48 months, depending on your needs. We offer flexible options for businesses of all sizes.

Q: Can I lease electric vehicles?
A: Absolutely. We offer a wide range of EVs and can help you transition your entire fleet to electric.

Q: What happens at the end of the lease?
A: You simply return the vehicle and we handle everything else. You can also choose to extend or upgrade to a new vehicle.`,

	TopicFleet: `Fleet Management FAQs:

Q: What fleet sizes do you work with?
A: We work with fleets of all sizes, from small businesses with a few vehicles to large corporations with thousands.

Q: What's included in fleet management?
A: Our services include vehicle sourcing, maintenance scheduling, fuel management, driver support, reporting, and end-of-life management.

Q: Can you help us go electric?
A: Yes. We specialise in helping companies transition to electric vehicles with our EV expertise and charging solutions.`,

	TopicEV: `Electric Vehicle FAQs:

Q: Does Fleetline offer electric vehicles?
A: Yes. We offer a comprehensive range of EVs from all major manufacturers.

Q: Do you provide charging solutions?
A: We can help arrange charging infrastructure for your business and advise on home charging for drivers.

Q: What support is available for EV drivers?
A: Our Driver Desk provides full support for EV drivers, including charging network assistance and EV-specific guidance.

Q: Are EVs more expensive to lease?
A: While some EVs have higher monthly costs, total cost of ownership is often lower due to reduced fuel and maintenance costs.`,

	TopicMOT: `MOT and Service FAQs:

Q: How do I book an MOT?
A: Simply call our Driver Desk or use this voice service. We'll arrange everything for you.

Q: Is MOT included in my lease?
A: Yes, MOT is typically included in our full-service lease packages.

Q: What if my vehicle fails its MOT?
A: Don't worry, we handle any required repairs. You'll receive a courtesy vehicle if needed.

Q: How much notice do I need to give?
A: We recommend booking at least 2 weeks in advance, but we can often accommodate shorter notice.`,

	TopicPricing: `Pricing and Costs FAQs:

Q: How is the monthly payment calculated?
A: Monthly payments are based on the vehicle value, lease term, expected mileage, and included services.

Q: Are there any hidden costs?
A: Our full-service lease includes everything. What you see is what you pay.

Q: Can I change my mileage allowance?
A: Yes, mileage can often be adjusted during the lease. Speak to your account manager for options.

Q: What payment methods do you accept?
A: We accept direct debit for monthly payments. Speak to our finance team for detailed options.`,

	TopicContracts: `Contract FAQs:

Q: What's the minimum lease term?
A: Minimum terms are typically 24 months, but we offer flexible options based on your needs.

Q: Can I end my lease early?
A: Early termination may be possible with an early termination fee. Contact your account manager to discuss options.

Q: What happens if I exceed my mileage?
A: Excess mileage is charged at a per-mile rate agreed at the start of your lease.

Q: Is there a cooling-off period?
A: Business leases don't have a statutory cooling-off period, but please discuss any concerns with us before signing.`,

	TopicCareers: `Careers at Fleetline FAQs:

Q: What roles are available?
A: We have opportunities in customer service, fleet management, sales, finance, and more. Visit our careers page for current openings.

Q: Is training provided?
A: Yes. New employees receive a comprehensive training programme before taking on full responsibilities.

Q: Do you offer hybrid working?
A: Yes, we offer hybrid working from our Reading office once you're settled in the role.`,

	TopicGeneral: `General FAQs:

Q: Who is Fleetline?
A: Fleetline is a UK vehicle-leasing and fleet-management company supporting business fleets of every size.

Q: Where are you based?
A: Our headquarters is in Reading, Berkshire.

Q: How can I contact you?
A: Call our Driver Desk Monday to Friday, 9am to 5pm UK time, or chat with this voice agent around the clock.

Q: What makes Fleetline different?
A: Our focus on service and sustainability, plus a friendly, no-script approach to customer care.`,
}

// Topics returns every valid topic name, sorted.
func Topics() []Topic {
	topics := make([]Topic, 0, len(answers))
	for t := range answers {
		topics = append(topics, t)
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i] < topics[j] })
	return topics
}

// Answer returns the knowledge-base text for a topic. Unknown topics get
// a fallback listing every available topic rather than an error, so the
// agent can steer the caller.
func Answer(topic string) string {
	if text, ok := answers[Topic(strings.ToLower(strings.TrimSpace(topic)))]; ok {
		return text
	}
	names := make([]string, 0, len(answers))
	for _, t := range Topics() {
		names = append(names, string(t))
	}
	return "I have FAQs available for these topics: " + strings.Join(names, ", ") +
		". Which topic would you like to know more about?"
}

// BusinessHours is the static operating-hours text.
const BusinessHours = `Fleetline Driver Desk Business Hours:

Standard Hours: Monday to Friday, 9:00 AM to 5:00 PM UK time.

24/7 Services: emergency roadside assistance is available around the clock.

We're closed on weekends and UK bank holidays. For urgent matters outside business hours, please contact our 24/7 roadside assistance line.`

// RoadsideAssistance is the static emergency-breakdown text.
const RoadsideAssistance = `Fleetline Emergency Roadside Assistance

Our 24/7 roadside assistance service is here to help.

What to have ready:
- Your vehicle registration number
- Your exact location (postcode if possible)
- A description of the issue
- Your contact phone number

Services available: breakdown recovery, battery jump-start, flat tyre assistance, fuel delivery, lockout service, and towing if needed.

If you're on a motorway or in an unsafe location, please ensure your own safety first. Turn on your hazard lights and move to a safe place if possible.

Shall I connect you with roadside assistance now, or is there other information you need?`
