package framework

import (
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
)

const (
	defaultQuestionWeight = 10.0
	defaultCategoryWeight = 20.0
)

// q builds a question with the default weight and an inferred target.
func q(text string, formula Formula) QuestionDef {
	return QuestionDef{
		Text:    text,
		Weight:  defaultQuestionWeight,
		Formula: formula,
		Target:  InferDefaultTarget(text, formula),
	}
}

// qt builds a question with the default weight and an explicit target.
func qt(text string, formula Formula, target float64) QuestionDef {
	return QuestionDef{
		Text:    text,
		Weight:  defaultQuestionWeight,
		Formula: formula,
		Target:  target,
	}
}

func cat(name string, questions ...QuestionDef) CategoryDef {
	return CategoryDef{Name: name, Weight: defaultCategoryWeight, Questions: questions}
}

// catalog is the assessment framework per hierarchy level. Question order
// within a level is load-bearing: the 1-based flattened position is the
// durable question ID stored with every response. Append new questions at
// the end of a category; never reorder or remove existing ones.
var catalog = map[models.UserRole][]CategoryDef{
	models.UserRoleZone: {
		cat("Operational Efficiency",
			q("On-time delivery rate (%) across the zone this month", FormulaRawPercent),
			q("Perfect order rate (%) – deliveries complete and undamaged", FormulaRawPercent),
			q("Avg order lead time (hrs; lower is better)", FormulaLIB),
			q("Fleet utilization rate (%) (vehicles used vs available)", FormulaRawPercent),
			q("Trailer utilization rate (%) (volume loaded vs capacity)", FormulaRawPercent),
			q("Order accuracy rate (%) (orders with correct items)", FormulaRawPercent),
			q("Damage-free shipment rate (%) (no cargo damage)", FormulaRawPercent),
			q("Avg handling time per order (hrs; lower is better)", FormulaLIB),
			q("Inventory turnover rate (times per month)", FormulaHIB),
			q("Facility uptime (%) (percent of time operational)", FormulaRawPercent),
		),
		cat("Compliance & Safety",
			q("Regulatory audit pass rate (%)", FormulaRawPercent),
			q("Safety certification compliance rate (%)", FormulaRawPercent),
			q("Safety training completion rate (%) this month", FormulaRawPercent),
			q("Scheduled maintenance completion rate (%)", FormulaHIB),
			q("Vehicle inspection compliance (%)", FormulaHIB),
			q("Product quality compliance rate (%) (within specs)", FormulaRawPercent),
			q("Workplace accident rate (per 1000 employees; lower is better)", FormulaLIB),
			q("OSHA incident rate (per 100 employees; lower is better)", FormulaLIB),
			q("Branches with zero compliance violations (%)", FormulaRawPercent),
			q("Audit findings closure rate (%) (finding resolved on time)", FormulaHIB),
		),
		cat("Strategic Initiatives",
			q("Strategic project completion rate (%) (on schedule)", FormulaRawPercent),
			q("Forecast accuracy (%) (vs annual plan)", FormulaRawPercent),
			q("Strategic budget adherence rate (%)", FormulaRawPercent),
			q("Avg time to implement new service (days; lower is better)", FormulaLIB),
			q("System uptime (%) (corporate systems)", FormulaRawPercent),
			q("Employee turnover rate (%) (lower is better)", FormulaLIB),
			q("Annual network capacity growth (%) (target vs actual)", FormulaHIB),
			q("New route launch rate (%) (vs plan)", FormulaHIB),
			q("IT project completion rate (%) (planned vs done)", FormulaHIB),
			q("ROI on strategic initiatives (%) (achieved vs planned)", FormulaHIB),
		),
		cat("Customer Service",
			q("Customer satisfaction score (%) (survey)", FormulaRawPercent),
			q("Customer on-time delivery rate (%)", FormulaRawPercent),
			q("Order fill rate (%) (orders delivered in full)", FormulaRawPercent),
			q("Avg complaint resolution time (days; lower is better)", FormulaLIB),
			q("Annual customer retention rate (%)", FormulaRawPercent),
			q("Invoice processing accuracy (%)", FormulaRawPercent),
			q("SLA compliance rate (%) (contracts met)", FormulaRawPercent),
			q("Avg inquiry response time (hrs; lower is better)", FormulaLIB),
			q("Customer complaint rate (%) (lower is better)", FormulaLIB),
			q("Net Promoter Score (%)", FormulaRawPercent),
		),
		cat("Financial Performance",
			q("Avg cost per order (USD; lower is better)", FormulaLIB),
			q("Transportation cost (% of revenue; lower is better)", FormulaLIB),
			q("Inventory carrying cost (% of value; lower is better)", FormulaLIB),
			q("Budget variance (%) (under/over budget; lower is better)", FormulaLIB),
			q("Profit margin (%)", FormulaHIB),
			q("Return on assets (%)", FormulaHIB),
			q("Fuel efficiency (miles/gallon)", FormulaHIB),
			q("Accounts receivable turnover", FormulaHIB),
			q("Working capital turnover", FormulaHIB),
			q("Overhead cost per branch (USD; lower is better)", FormulaLIB),
		),
	},
	models.UserRoleRegion: {
		cat("Transportation",
			q("On-time shipment rate (%) for regional deliveries", FormulaRawPercent),
			q("Average transit time (hours; lower is better)", FormulaLIB),
			q("Truck turnaround rate (min at facility; lower is better)", FormulaLIB),
			q("Fleet utilization (%) (regional vehicle usage)", FormulaRawPercent),
			q("Freight cost per shipment (USD; lower is better)", FormulaLIB),
			q("Transportation cost (% of regional revenue; lower is better)", FormulaLIB),
			q("Percentage of regional shipments with accurate billing", FormulaRawPercent),
			q("Average dwell time at regional hub (hrs; lower is better)", FormulaLIB),
			q("Trailer load fill rate (%)", FormulaRawPercent),
			q("Fuel cost per mile (USD; lower is better)", FormulaLIB),
		),
		cat("Warehouse",
			q("Inventory accuracy (%) at regional DCs", FormulaRawPercent),
			q("Order picking accuracy (%)", FormulaRawPercent),
			q("Average warehouse order cycle time (hrs; lower is better)", FormulaLIB),
			q("On-time warehouse dispatch rate (%)", FormulaRawPercent),
			q("Dock-to-stock cycle time (hrs; lower is better)", FormulaLIB),
			q("Warehouse cost per unit (USD; lower is better)", FormulaLIB),
			q("Warehouse space utilization (%)", FormulaRawPercent),
			q("Shrinkage rate (%) (inventory loss; lower is better)", FormulaLIB),
			q("Number of backorders per month (lower is better)", FormulaLIB),
			q("Pallet movement per labor-hour (higher is better)", FormulaHIB),
		),
		cat("Process",
			q("Shipments per employee (monthly)", FormulaHIB),
			q("Processing cost per shipment (USD; lower is better)", FormulaLIB),
			q("Percentage of standard operating procedures followed", FormulaRawPercent),
			q("Automation rate of manual processes (%)", FormulaRawPercent),
			q("Regional process cycle time (total order to delivery, hrs; lower is better)", FormulaLIB),
			q("Supply chain efficiency index (composite, higher is better)", FormulaHIB),
			q("Percentage of on-time project milestones", FormulaRawPercent),
			q("IT systems uptime (%) (regional systems)", FormulaRawPercent),
			q("Data accuracy rate (%) in key systems", FormulaRawPercent),
			q("Percentage of operations supported by real-time tracking", FormulaRawPercent),
		),
		cat("Safety",
			q("Regional OSHA recordable incident rate (per 100 employees; lower is better)", FormulaLIB),
			q("Safety training hours per employee (vs target)", FormulaHIB),
			q("Number of safety audits completed on schedule (%)", FormulaRawPercent),
			q("Incident response time (mins; lower is better)", FormulaLIB),
			q("Work-related injury frequency (incidents per million hours; lower is better)", FormulaLIB),
			q("Percentage of sites passing safety audit without findings", FormulaRawPercent),
			q("Environmental compliance rate (%)", FormulaRawPercent),
			q("Corrective actions closure rate (%) (on time)", FormulaRawPercent),
			q("Lost-time incident rate (per 100 employees; lower is better)", FormulaLIB),
			q("Percentage of safety equipment checks completed", FormulaRawPercent),
		),
		cat("Customer",
			q("Regional customer satisfaction score (%)", FormulaRawPercent),
			q("Regional on-time response to customer inquiries (%)", FormulaRawPercent),
			q("Percentage of repeat orders processed error-free", FormulaRawPercent),
			q("Region-level perfect order rate (%) (no issues per order)", FormulaRawPercent),
			q("Average lead time for regional orders (days; lower is better)", FormulaLIB),
			q("Percentage of customer SLAs met", FormulaRawPercent),
			q("On-time invoice generation (%)", FormulaRawPercent),
			q("Average payment collection time (days; lower is better)", FormulaLIB),
			q("Monthly customer complaint rate (%) (lower is better)", FormulaLIB),
			q("Percentage of customer queries resolved within 24h", FormulaRawPercent),
		),
	},
	models.UserRoleCity: {
		cat("Delivery Efficiency",
			q("City delivery on-time rate (%)", FormulaRawPercent),
			q("Avg last-mile delivery time (min; lower is better)", FormulaLIB),
			q("Delivery density (deliveries per route)", FormulaHIB),
			q("Vehicle loading rate (%) (used capacity vs total)", FormulaRawPercent),
			q("Percentage of deliveries with digital proof-of-delivery", FormulaRawPercent),
			q("Fuel efficiency for city fleet (km/liter)", FormulaHIB),
			q("Turnaround time for city hub reloading (min; lower is better)", FormulaLIB),
			q("Backhaul utilization rate (%)", FormulaRawPercent),
			q("On-time pickup rate (%)", FormulaRawPercent),
			q("City-level shipment per driver per day", FormulaHIB),
		),
		cat("Inventory",
			q("Branch inventory accuracy (%)", FormulaRawPercent),
			q("Stockout rate (%) (lower is better)", FormulaLIB),
			q("Cycle count completion rate (%)", FormulaRawPercent),
			q("Days of inventory on hand (lower is better)", FormulaLIB),
			q("Space utilization (%)", FormulaRawPercent),
			q("Shrinkage (%) (lower is better)", FormulaLIB),
			q("Expired or obsolete stock (%) (lower is better)", FormulaLIB),
			q("Order fill time (hours; lower is better)", FormulaLIB),
			q("Fill rate to customers (%)", FormulaRawPercent),
			q("Inventory turnover (times/year)", FormulaHIB),
		),
		cat("Process",
			q("Percentage of processes automated", FormulaRawPercent),
			q("Staff training compliance (%) (completed required training)", FormulaRawPercent),
			q("Adherence to standard pickup/check-in procedures (%)", FormulaRawPercent),
			q("Order processing accuracy (%)", FormulaRawPercent),
			q("Avg daily throughput (packages handled per day)", FormulaHIB),
			q("Call center response rate (%)", FormulaRawPercent),
			q("Reports submitted on time (%)", FormulaRawPercent),
			q("Percentage of branches meeting audit schedules", FormulaRawPercent),
			q("Internal inventory audit pass rate (%)", FormulaRawPercent),
			q("Percentage of escalations resolved within SLA (%)", FormulaRawPercent),
		),
		cat("Safety & Compliance",
			q("City-level incident rate (accidents per 100 employees; lower is better)", FormulaLIB),
			q("PPE compliance (%) (personnel wearing required equipment)", FormulaRawPercent),
			q("Number of safety audits passed (%)", FormulaRawPercent),
			q("Compliance with local regulations (%)", FormulaRawPercent),
			q("Environmental safety incidents (count; lower is better)", FormulaLIB),
			q("Fire drill completion rate (%)", FormulaRawPercent),
			q("Equipment inspection rate (%)", FormulaRawPercent),
			q("Ergonomic training completion (%)", FormulaRawPercent),
			q("Lost-time injury frequency (per 100 employees; lower is better)", FormulaLIB),
			q("Compliance with waste disposal regulations (%)", FormulaRawPercent),
		),
		cat("Customer",
			q("In-city customer satisfaction (%)", FormulaRawPercent),
			q("Percentage of orders delivered in full", FormulaRawPercent),
			q("City-level complaint resolution rate (%)", FormulaRawPercent),
			q("Average follow-up response time (hrs; lower is better)", FormulaLIB),
			q("Customer repeat order rate (%)", FormulaRawPercent),
			q("Local net promoter score (%)", FormulaRawPercent),
			q("Timeliness of emergency orders (%)", FormulaRawPercent),
			q("Percentage of customers enrolled in loyalty programs", FormulaRawPercent),
			q("Feedback survey completion rate (%)", FormulaRawPercent),
			q("Cancellation rate (%) (lower is better)", FormulaLIB),
		),
	},
	models.UserRoleBranch: {
		cat("Daily Ops",
			q("Shipments processed per day", FormulaHIB),
			q("On-time delivery rate (%) at branch", FormulaRawPercent),
			q("Order picking accuracy (%)", FormulaRawPercent),
			q("Shipments per labor-hour", FormulaHIB),
			q("Branch throughput vs plan (%)", FormulaHIB),
			q("Queue time at branch (mins; lower is better)", FormulaLIB),
			q("Local customer complaints (%) (lower is better)", FormulaLIB),
			q("Price quote accuracy (%)", FormulaRawPercent),
			q("Order cycle time (hours from order to dispatch; lower is better)", FormulaLIB),
			q("Stockout incidents per month (lower is better)", FormulaLIB),
		),
		cat("Inventory",
			q("Inventory count accuracy (%)", FormulaRawPercent),
			q("Cycle count completion (%)", FormulaRawPercent),
			q("Order fill rate (%)", FormulaRawPercent),
			q("Inventory replenishment lead time (days; lower is better)", FormulaLIB),
			q("Number of inventory adjustments (count; lower is better)", FormulaLIB),
			q("Stock accuracy (negative adjustments) (%) (lower is better)", FormulaLIB),
			q("Return rate (%) (customer returns; lower is better)", FormulaLIB),
			q("Wastage/spoilage rate (%) (lower is better)", FormulaLIB),
			q("Stock rotation index (times per month)", FormulaHIB),
			q("Inventory to sales ratio (target vs actual)", FormulaHIB),
		),
		cat("Safety & Compliance",
			q("Branch OSHA incident rate (per 100 employees; lower is better)", FormulaLIB),
			q("Safety checklist completion rate (%)", FormulaRawPercent),
			q("Emergency drill completion (%)", FormulaRawPercent),
			q("Personal protective equipment compliance (%)", FormulaRawPercent),
			q("Number of safety violations this month (lower is better)", FormulaLIB),
			q("Chemical handling compliance (%)", FormulaRawPercent),
			q("Vehicle inspection rate (%)", FormulaRawPercent),
			q("Safety incident response time (mins; lower is better)", FormulaLIB),
			q("Percentage of equipment maintenance on schedule", FormulaRawPercent),
			q("Compliance training rate (%)", FormulaRawPercent),
		),
		cat("Process",
			q("Standard operating procedure compliance (%)", FormulaRawPercent),
			q("Number of non-conformance incidents (lower is better)", FormulaLIB),
			q("Time to resolve customer issues (hrs; lower is better)", FormulaLIB),
			q("Percentage of daily targets met", FormulaRawPercent),
			q("Cross-docking rate (%)", FormulaRawPercent),
			q("Order cycle time for priority orders (hrs; lower is better)", FormulaLIB),
			q("Daily report submission on time (%)", FormulaRawPercent),
			q("Percentage of courier pickups met", FormulaRawPercent),
			qt("Compliance with digital record-keeping (yes=100, no=0)", FormulaHIB, 100.0),
			q("Parking space utilization (%)", FormulaRawPercent),
		),
		cat("Equipment",
			q("Equipment uptime (%)", FormulaRawPercent),
			q("Preventive maintenance completion (%)", FormulaRawPercent),
			q("Mean time to repair (hrs; lower is better)", FormulaLIB),
			q("Number of equipment failures per month (lower is better)", FormulaLIB),
			q("Percentage of safety checks done on equipment", FormulaRawPercent),
			q("Inventory of spare parts accuracy (%)", FormulaRawPercent),
			q("Calibration compliance (%)", FormulaRawPercent),
			q("Avg downtime of critical machines (hrs; lower is better)", FormulaLIB),
			q("Maintenance cost per unit ($; lower is better)", FormulaLIB),
			q("Backlog of preventive tasks (count; lower is better)", FormulaLIB),
		),
	},
}
